package matcher

import (
	"github.com/google/uuid"

	"github.com/vyrodovalexey/routematch/internal/pathparser"
)

// RecordMatcher pairs a normalized record with its compiled path and its
// links in the route tree.
type RecordMatcher struct {
	// ID identifies the matcher in logs and listings.
	ID     uuid.UUID
	Record *Record

	// Parent is the enclosing matcher. The parent owns its children.
	Parent   *RecordMatcher
	Children []*RecordMatcher

	// Alias lists the matchers whose record is an alias of this one.
	Alias []*RecordMatcher

	parser *pathparser.Parser
}

func newRecordMatcher(rec *Record, parent *RecordMatcher, options pathparser.Options) (*RecordMatcher, error) {
	parser, err := pathparser.Compile(rec.Path, options)
	if err != nil {
		return nil, err
	}
	return &RecordMatcher{
		ID:     uuid.New(),
		Record: rec,
		Parent: parent,
		parser: parser,
	}, nil
}

// Parser returns the compiled path.
func (m *RecordMatcher) Parser() *pathparser.Parser {
	return m.parser
}

// Score returns the specificity of the compiled path.
func (m *RecordMatcher) Score() pathparser.Score {
	return m.parser.Score()
}

// Keys returns the params of the compiled path.
func (m *RecordMatcher) Keys() []pathparser.Key {
	return m.parser.Keys()
}

// Matchable reports whether the matcher takes part in resolution.
func (m *RecordMatcher) Matchable() bool {
	return m.Record.Matchable()
}

// IsAlias reports whether the matcher or one of its ancestors is an alias.
func (m *RecordMatcher) IsAlias() bool {
	for cur := m; cur != nil; cur = cur.Parent {
		if cur.Record.IsAlias() {
			return true
		}
	}
	return false
}

// adopt appends child to m.Children when both are canonical or both are
// aliases. Alias subtrees hang off alias parents only.
func (m *RecordMatcher) adopt(child *RecordMatcher) {
	if m.Record.IsAlias() == child.Record.IsAlias() {
		m.Children = append(m.Children, child)
	}
}

// release drops child from m.Children.
func (m *RecordMatcher) release(child *RecordMatcher) {
	for i, c := range m.Children {
		if c == child {
			m.Children = append(m.Children[:i:i], m.Children[i+1:]...)
			return
		}
	}
}

// chain returns the records from the root ancestor down to m.
func (m *RecordMatcher) chain() []*Record {
	depth := 0
	for cur := m; cur != nil; cur = cur.Parent {
		depth++
	}
	records := make([]*Record, depth)
	for cur := m; cur != nil; cur = cur.Parent {
		depth--
		records[depth] = cur.Record
	}
	return records
}
