package pathparser

// Score is the specificity of a pattern: one slice of sub-segment weights
// per path segment, most significant segment first.
type Score [][]float64

// Compare orders two scores. It returns a negative number when a is more
// specific than b and must be tried first, a positive number when b must be
// tried first, and zero when they rank equally.
//
// Segments are compared left to right. When segment counts differ by exactly
// one, the score whose last sub-segment weight is negative (a repeatable or
// catch-all tail) loses; otherwise the score with more segments wins.
//
// Compare is transitive for realistic route tables but is not proven to be a
// total order when custom regexps make otherwise equal segments differ.
func Compare(a, b Score) int {
	i := 0
	for i < len(a) && i < len(b) {
		if c := compareSegment(a[i], b[i]); c != 0 {
			return c
		}
		i++
	}

	if diff := len(b) - len(a); diff == 1 || diff == -1 {
		if a.lastIsNegative() {
			return 1
		}
		if b.lastIsNegative() {
			return -1
		}
	}

	return len(b) - len(a)
}

// compareSegment compares the sub-segment weights of one segment.
func compareSegment(a, b []float64) int {
	i := 0
	for i < len(a) && i < len(b) {
		if diff := b[i] - a[i]; diff != 0 {
			return sign(diff)
		}
		i++
	}

	// a lone static sub-segment beats a longer segment starting with the
	// same static text; in every other case the longer segment wins
	switch {
	case len(a) < len(b):
		if len(a) == 1 && a[0] == scoreStatic+scoreSegment {
			return -1
		}
		return 1
	case len(a) > len(b):
		if len(b) == 1 && b[0] == scoreStatic+scoreSegment {
			return 1
		}
		return -1
	}
	return 0
}

func (s Score) lastIsNegative() bool {
	if len(s) == 0 {
		return false
	}
	last := s[len(s)-1]
	return len(last) > 0 && last[len(last)-1] < 0
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}
