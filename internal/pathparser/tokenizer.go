package pathparser

import (
	"github.com/vyrodovalexey/routematch/internal/util"
)

// tokenType distinguishes static text from parameter tokens.
type tokenType uint8

const (
	tokenStatic tokenType = iota
	tokenParam
)

// token is one piece of a path segment.
type token struct {
	typ        tokenType
	value      string
	regexp     string
	repeatable bool
	optional   bool
}

type tokenizerState uint8

const (
	stateStatic tokenizerState = iota
	stateParam
	stateParamRegexp
	stateParamRegexpEnd
	stateEscapeNext
)

// rootToken is the single token of the "/" path.
var rootToken = token{typ: tokenStatic}

// tokenizer splits a route path into segments of tokens.
type tokenizer struct {
	path          string
	state         tokenizerState
	previousState tokenizerState
	segments      [][]token
	segment       []token
	started       bool
	char          byte
	buffer        []byte
	customRe      []byte
	reDepth       int
}

// tokenize turns a route path into its segments. An empty path yields a
// single empty segment, "/" yields a single root token.
func tokenize(path string) ([][]token, error) {
	if path == "" {
		return [][]token{{}}, nil
	}
	if path == "/" {
		return [][]token{{rootToken}}, nil
	}
	if path == "*" {
		return nil, util.NewPatternError(path, `catch-all routes must use a param with a custom regexp, eg: "/:pathMatch(.*)*"`)
	}
	if path[0] != '/' {
		return nil, util.NewPatternError(path, `route paths must start with "/", use "/`+path+`"`)
	}

	t := &tokenizer{path: path}
	return t.run()
}

func (t *tokenizer) run() ([][]token, error) {
	for i := 0; i < len(t.path); i++ {
		t.char = t.path[i]

		if t.char == '\\' && t.state != stateParamRegexp {
			t.previousState = t.state
			t.state = stateEscapeNext
			continue
		}

		switch t.state {
		case stateStatic:
			switch t.char {
			case '/':
				// repeated separators collapse into one boundary
				if i > 0 && t.path[i-1] == '/' && len(t.buffer) == 0 && len(t.segment) == 0 {
					continue
				}
				if err := t.consumeBuffer(); err != nil {
					return nil, err
				}
				t.finalizeSegment()
			case ':':
				if err := t.consumeBuffer(); err != nil {
					return nil, err
				}
				t.state = stateParam
			default:
				t.buffer = append(t.buffer, t.char)
			}

		case stateEscapeNext:
			t.buffer = append(t.buffer, t.char)
			t.state = t.previousState

		case stateParam:
			switch {
			case t.char == '(':
				t.state = stateParamRegexp
			case isParamNameChar(t.char):
				t.buffer = append(t.buffer, t.char)
			default:
				if err := t.consumeBuffer(); err != nil {
					return nil, err
				}
				t.state = stateStatic
				if !isModifier(t.char) {
					i--
				}
			}

		case stateParamRegexp:
			t.readCustomRegexp()

		case stateParamRegexpEnd:
			if err := t.consumeBuffer(); err != nil {
				return nil, err
			}
			t.state = stateStatic
			if !isModifier(t.char) {
				i--
			}
			t.customRe = t.customRe[:0]
		}
	}

	if t.state == stateParamRegexp {
		return nil, util.NewPatternError(t.path, `unfinished custom regexp for param "`+string(t.buffer)+`"`)
	}

	// a trailing modifier was already consumed; reset so the last name is not
	// seen as repeatable a second time
	t.char = 0
	if err := t.consumeBuffer(); err != nil {
		return nil, err
	}
	t.finalizeSegment()

	return t.segments, nil
}

// readCustomRegexp accumulates the custom regexp of a param. Parentheses may
// nest, and an escaped closing parenthesis is kept literally.
func (t *tokenizer) readCustomRegexp() {
	n := len(t.customRe)
	escaped := n > 0 && t.customRe[n-1] == '\\'

	switch t.char {
	case '(':
		if !escaped {
			t.reDepth++
		}
		t.customRe = append(t.customRe, t.char)
	case ')':
		switch {
		case escaped:
			t.customRe = append(t.customRe, t.char)
		case t.reDepth > 0:
			t.reDepth--
			t.customRe = append(t.customRe, t.char)
		default:
			t.state = stateParamRegexpEnd
		}
	default:
		t.customRe = append(t.customRe, t.char)
	}
}

func (t *tokenizer) consumeBuffer() error {
	if t.state == stateParam || t.state == stateParamRegexp || t.state == stateParamRegexpEnd {
		if len(t.buffer) == 0 {
			return util.NewPatternError(t.path, "missing param name after \":\"")
		}
		repeatable := t.char == '*' || t.char == '+'
		if repeatable && len(t.segment) > 0 {
			return util.NewPatternError(t.path,
				`a repeatable param (`+string(t.buffer)+`) must be alone in its segment, eg: "/:ids+"`)
		}
		t.segment = append(t.segment, token{
			typ:        tokenParam,
			value:      string(t.buffer),
			regexp:     string(t.customRe),
			repeatable: repeatable,
			optional:   t.char == '*' || t.char == '?',
		})
		t.buffer = t.buffer[:0]
		return nil
	}

	if len(t.buffer) == 0 {
		return nil
	}
	t.segment = append(t.segment, token{typ: tokenStatic, value: string(t.buffer)})
	t.buffer = t.buffer[:0]
	return nil
}

// finalizeSegment closes the current segment. The leading slash does not
// open an empty segment but a trailing one does.
func (t *tokenizer) finalizeSegment() {
	if t.started {
		t.segments = append(t.segments, t.segment)
	}
	t.started = true
	t.segment = []token{}
}

func isParamNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isModifier(c byte) bool {
	return c == '*' || c == '?' || c == '+'
}
