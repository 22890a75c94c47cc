package pathparser

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/routematch/internal/util"
)

// Score weights. Every weight is multiplied by scoreMultiplier so the
// fractional bonuses stay readable.
const (
	scoreMultiplier = 10

	scoreRoot    = 9 * scoreMultiplier
	scoreSegment = 4 * scoreMultiplier
	scoreStatic  = 4 * scoreMultiplier
	scoreDynamic = 2 * scoreMultiplier

	bonusCustomRegexp = 1 * scoreMultiplier
	// cancels the custom regexp bonus of (.*) params
	bonusWildcard   = -4*scoreMultiplier - bonusCustomRegexp
	bonusRepeatable = -2 * scoreMultiplier
	bonusOptional   = -0.8 * scoreMultiplier
	// strict and sensitive stay under 0.1 so a strict /:page still ranks
	// below /:a-:b
	bonusStrict    = 0.07 * scoreMultiplier
	bonusSensitive = 0.025 * scoreMultiplier
	bonusNotEnd    = -0.05 * scoreMultiplier
)

// defaultParamRegexp matches one path segment.
const defaultParamRegexp = "[^/]+?"

// wildcardRegexp is the custom regexp of catch-all params.
const wildcardRegexp = ".*"

// Options configures how a path pattern matches.
type Options struct {
	// Sensitive makes static text match case-sensitively.
	Sensitive bool `yaml:"sensitive" json:"sensitive"`

	// Strict forbids an optional trailing slash.
	Strict bool `yaml:"strict" json:"strict"`

	// End anchors the pattern at the end of the path. Patterns without it
	// match any path they are a prefix of.
	End bool `yaml:"end" json:"end"`
}

// DefaultOptions returns the options used when a record sets none.
func DefaultOptions() Options {
	return Options{End: true}
}

// Key describes one param of a pattern, in capture order.
type Key struct {
	Name       string
	Optional   bool
	Repeatable bool
}

// Parser is a compiled route path pattern.
type Parser struct {
	path     string
	options  Options
	re       *regexp.Regexp
	keys     []Key
	groups   []int
	segments [][]token
	score    Score
}

// Compile compiles a route path into a Parser.
func Compile(path string, options Options) (*Parser, error) {
	segments, err := tokenize(path)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		path:     path,
		options:  options,
		segments: segments,
		score:    make(Score, 0, len(segments)),
	}

	pattern, err := p.build()
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, util.NewPatternErrorWithCause(path, "cannot compile pattern", err)
	}
	p.re = re

	p.groups = make([]int, len(p.keys))
	for i := range p.keys {
		p.groups[i] = re.SubexpIndex(groupName(i))
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(path string, options Options) *Parser {
	p, err := Compile(path, options)
	if err != nil {
		panic(err)
	}
	return p
}

// build assembles the regexp source and the score of every segment.
func (p *Parser) build() (string, error) {
	var pattern strings.Builder
	if !p.options.Sensitive {
		pattern.WriteString("(?i)")
	}
	pattern.WriteByte('^')

	seen := make(map[string]bool)

	for _, segment := range p.segments {
		var segmentScores []float64
		if len(segment) == 0 {
			segmentScores = append(segmentScores, scoreRoot)
		}
		if p.options.Strict && len(segment) == 0 {
			pattern.WriteByte('/')
		}

		for tokenIndex, tok := range segment {
			subScore := float64(scoreSegment)
			if p.options.Sensitive {
				subScore += bonusSensitive
			}

			if tok.typ == tokenStatic {
				if tokenIndex == 0 {
					pattern.WriteByte('/')
				}
				pattern.WriteString(regexp.QuoteMeta(tok.value))
				subScore += scoreStatic
				segmentScores = append(segmentScores, subScore)
				continue
			}

			if seen[tok.value] {
				return "", util.NewPatternError(p.path, `duplicated param name "`+tok.value+`"`)
			}
			seen[tok.value] = true

			re := tok.regexp
			if re == "" {
				re = defaultParamRegexp
			} else {
				subScore += bonusCustomRegexp
				if _, err := regexp.Compile("(" + re + ")"); err != nil {
					return "", util.NewPatternErrorWithCause(p.path,
						`invalid custom regexp for param "`+tok.value+`"`, err)
				}
			}

			group := groupName(len(p.keys))
			p.keys = append(p.keys, Key{Name: tok.value, Optional: tok.optional, Repeatable: tok.repeatable})

			var sub string
			if tok.repeatable {
				sub = "(?P<" + group + ">(?:" + re + ")(?:/(?:" + re + "))*)"
			} else {
				sub = "(?P<" + group + ">" + re + ")"
			}
			if tokenIndex == 0 {
				if tok.optional && len(segment) < 2 {
					sub = "(?:/" + sub + ")"
				} else {
					sub = "/" + sub
				}
			}
			if tok.optional {
				sub += "?"
			}
			pattern.WriteString(sub)

			subScore += scoreDynamic
			if tok.optional {
				subScore += bonusOptional
			}
			if tok.repeatable {
				subScore += bonusRepeatable
			}
			if re == wildcardRegexp {
				subScore += bonusWildcard
			}
			segmentScores = append(segmentScores, subScore)
		}

		p.score = append(p.score, segmentScores)
	}

	if last := len(p.score) - 1; last >= 0 && len(p.score[last]) > 0 {
		tail := len(p.score[last]) - 1
		if p.options.Strict && p.options.End {
			p.score[last][tail] += bonusStrict
		}
		if !p.options.End {
			p.score[last][tail] += bonusNotEnd
		}
	}

	if !p.options.Strict {
		pattern.WriteString("/?")
	}
	// prefix patterns stop at a segment boundary so /home never matches
	// /homeless and lazy params take the whole segment
	switch {
	case p.options.End:
		pattern.WriteByte('$')
	case !strings.HasSuffix(pattern.String(), "/"):
		pattern.WriteString("(?:/|$)")
	}

	return pattern.String(), nil
}

// Path returns the source path of the pattern.
func (p *Parser) Path() string {
	return p.path
}

// Options returns the options the pattern was compiled with.
func (p *Parser) Options() Options {
	return p.options
}

// Regexp returns the compiled matching expression.
func (p *Parser) Regexp() *regexp.Regexp {
	return p.re
}

// Keys returns the param descriptors in capture order.
func (p *Parser) Keys() []Key {
	return append([]Key(nil), p.keys...)
}

// KeyNames returns the names of all params.
func (p *Parser) KeyNames() []string {
	names := make([]string, len(p.keys))
	for i, k := range p.keys {
		names[i] = k.Name
	}
	return names
}

// RequiredKeyNames returns the names of the non-optional params.
func (p *Parser) RequiredKeyNames() []string {
	var names []string
	for _, k := range p.keys {
		if !k.Optional {
			names = append(names, k.Name)
		}
	}
	return names
}

// OptionalKeyNames returns the names of the optional params.
func (p *Parser) OptionalKeyNames() []string {
	var names []string
	for _, k := range p.keys {
		if k.Optional {
			names = append(names, k.Name)
		}
	}
	return names
}

// HasKey reports whether the pattern declares a param.
func (p *Parser) HasKey(name string) bool {
	for _, k := range p.keys {
		if k.Name == name {
			return true
		}
	}
	return false
}

// Score returns the specificity score.
func (p *Parser) Score() Score {
	return p.score
}

// Match reports whether the path matches the pattern.
func (p *Parser) Match(path string) bool {
	return p.re.MatchString(path)
}

// Parse extracts decoded params from a path. It returns false when the path
// does not match. Optional params that matched nothing are omitted.
func (p *Parser) Parse(path string) (Params, bool) {
	loc := p.re.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}

	params := make(Params, len(p.keys))
	for i, key := range p.keys {
		g := p.groups[i]
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 {
			continue
		}
		raw := path[start:end]
		if raw == "" && key.Optional {
			continue
		}
		if key.Repeatable {
			parts := strings.Split(raw, "/")
			for j, part := range parts {
				parts[j] = decodeSegment(part)
			}
			params[key.Name] = List(parts...)
			continue
		}
		params[key.Name] = Single(decodeSegment(raw))
	}

	return params, true
}

// Stringify builds a path from params. Unknown params are ignored.
func (p *Parser) Stringify(params Params) (string, error) {
	var path strings.Builder
	avoidDuplicatedSlash := false

	for _, segment := range p.segments {
		if !avoidDuplicatedSlash || !strings.HasSuffix(path.String(), "/") {
			path.WriteByte('/')
		}
		avoidDuplicatedSlash = false

		for _, tok := range segment {
			if tok.typ == tokenStatic {
				path.WriteString(tok.value)
				continue
			}

			param, ok := params[tok.value]
			if ok && param.IsList() && !tok.repeatable {
				return "", util.NewStringifyError(tok.value, "is a list but it is not repeatable (* or + modifiers)")
			}
			if ok && !param.IsList() && tok.repeatable && !param.IsEmpty() {
				return "", util.NewStringifyError(tok.value, "is repeatable (* or + modifiers) but the value is not a list")
			}

			text := encodeParam(param)
			if text == "" {
				if !tok.optional {
					return "", util.NewStringifyError(tok.value, "is required")
				}
				if len(segment) < 2 {
					current := path.String()
					if strings.HasSuffix(current, "/") {
						path.Reset()
						path.WriteString(current[:len(current)-1])
					} else {
						avoidDuplicatedSlash = true
					}
				}
			}
			path.WriteString(text)
		}
	}

	if path.Len() == 0 {
		return "/", nil
	}
	return path.String(), nil
}

// encodeParam percent-encodes each value and joins lists with "/".
func encodeParam(param Param) string {
	values := param.values
	if len(values) == 0 {
		return ""
	}
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = url.PathEscape(v)
	}
	return strings.Join(encoded, "/")
}

// decodeSegment percent-decodes a segment and keeps the raw text when it is
// not validly encoded.
func decodeSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

func groupName(i int) string {
	return "p" + strconv.Itoa(i)
}
