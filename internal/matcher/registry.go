package matcher

import (
	"slices"
	"sort"
	"strings"

	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/pathparser"
)

// RemoveFunc removes the route tree returned by AddRoute. Calling it again
// is a no-op.
type RemoveFunc func()

// Option configures a Registry.
type Option func(*Registry)

// WithOptions sets the path options used by records that do not override
// them.
func WithOptions(options pathparser.Options) Option {
	return func(r *Registry) {
		r.options = options
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics the registry updates.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(r *Registry) {
		r.metrics = metrics
	}
}

// WithWarnings enables or disables advisory warnings.
func WithWarnings(enabled bool) Option {
	return func(r *Registry) {
		r.warnings = enabled
	}
}

// Registry holds compiled routes ordered by specificity and indexed by name.
// It is not safe for concurrent use.
type Registry struct {
	options  pathparser.Options
	logger   observability.Logger
	metrics  *observability.Metrics
	warnings bool

	matchers []*RecordMatcher
	names    map[string]*RecordMatcher
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		options:  pathparser.DefaultOptions(),
		logger:   observability.NopLogger(),
		warnings: true,
		names:    make(map[string]*RecordMatcher),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddRoute compiles a definition with its children and aliases and inserts
// the result. A named definition replaces the route registered under the
// same name. When parent is set the definition is nested under it.
//
// Nothing is registered when any path of the tree fails to compile.
func (r *Registry) AddRoute(def RouteDefinition, parent *RecordMatcher) (RemoveFunc, error) {
	b := &builder{registry: r, parent: parent}
	root, err := b.add(def, parent, nil)
	if err != nil {
		r.logger.Debug("route rejected",
			observability.String("path", def.Path),
			observability.String("name", def.Name),
			observability.Error(err),
		)
		return nil, err
	}

	r.commit(b)
	return func() { r.RemoveMatcher(root) }, nil
}

// commit links a built tree into the registry.
func (r *Registry) commit(b *builder) {
	if b.parent != nil {
		for _, m := range b.roots {
			b.parent.adopt(m)
		}
	}

	added := 0
	for _, step := range b.steps {
		if step.replaces {
			r.RemoveRoute(step.matcher.Record.Name)
		}
		if !step.matcher.Matchable() {
			continue
		}
		r.insertMatcher(step.matcher)
		added++
		r.logger.Debug("route added",
			observability.Stringer("id", step.matcher.ID),
			observability.String("path", step.matcher.Record.Path),
			observability.String("name", step.matcher.Record.Name),
			observability.Bool("alias", step.matcher.IsAlias()),
		)
	}

	if r.metrics != nil {
		r.metrics.RecordRoutesAdded(added)
		r.metrics.SetMatchers(len(r.matchers))
	}
}

// insertMatcher places m after every matcher at least as specific, unless an
// ancestor with the same score is already present, in which case m goes
// right before that ancestor.
func (r *Registry) insertMatcher(m *RecordMatcher) {
	index := r.insertionIndex(m)
	r.matchers = slices.Insert(r.matchers, index, m)

	if m.Record.Name != "" && !m.IsAlias() {
		r.names[m.Record.Name] = m
	}
}

func (r *Registry) insertionIndex(m *RecordMatcher) int {
	score := m.Score()
	upper := sort.Search(len(r.matchers), func(i int) bool {
		return pathparser.Compare(score, r.matchers[i].Score()) < 0
	})

	if ancestor := insertionAncestor(m); ancestor != nil {
		for i := upper - 1; i >= 0; i-- {
			if r.matchers[i] == ancestor {
				return i
			}
		}
	}
	return upper
}

// insertionAncestor returns the closest matchable ancestor ranking equal to
// m, such as the parent of an empty-path child.
func insertionAncestor(m *RecordMatcher) *RecordMatcher {
	for ancestor := m.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.Matchable() && pathparser.Compare(m.Score(), ancestor.Score()) == 0 {
			return ancestor
		}
	}
	return nil
}

// RemoveRoute removes the route registered under name with its children and
// aliases. Unknown names are ignored.
func (r *Registry) RemoveRoute(name string) {
	if m, ok := r.names[name]; ok {
		r.RemoveMatcher(m)
	}
}

// RemoveMatcher removes m with its children and aliases.
func (r *Registry) RemoveMatcher(m *RecordMatcher) {
	if m == nil {
		return
	}
	removed := r.remove(m)
	if r.metrics != nil && removed > 0 {
		r.metrics.RecordRoutesRemoved(removed)
		r.metrics.SetMatchers(len(r.matchers))
	}
}

func (r *Registry) remove(m *RecordMatcher) int {
	removed := 0
	if i := slices.Index(r.matchers, m); i >= 0 {
		r.matchers = slices.Delete(r.matchers, i, i+1)
		removed++
		r.logger.Debug("route removed",
			observability.Stringer("id", m.ID),
			observability.String("path", m.Record.Path),
			observability.String("name", m.Record.Name),
		)
	}
	if name := m.Record.Name; name != "" && r.names[name] == m {
		delete(r.names, name)
	}
	if m.Parent != nil {
		m.Parent.release(m)
	}

	// groups are never inserted but their subtrees are
	for _, child := range slices.Clone(m.Children) {
		removed += r.remove(child)
	}
	for _, alias := range m.Alias {
		removed += r.remove(alias)
	}
	return removed
}

// GetRoutes returns the matchers in resolution order. The slice is a copy.
func (r *Registry) GetRoutes() []*RecordMatcher {
	return slices.Clone(r.matchers)
}

// GetRecordMatcher returns the canonical matcher registered under name.
func (r *Registry) GetRecordMatcher(name string) (*RecordMatcher, bool) {
	m, ok := r.names[name]
	return m, ok
}

// HasRoute reports whether a route is registered under name.
func (r *Registry) HasRoute(name string) bool {
	_, ok := r.names[name]
	return ok
}

// ClearRoutes removes every route.
func (r *Registry) ClearRoutes() {
	removed := len(r.matchers)
	r.matchers = nil
	r.names = make(map[string]*RecordMatcher)
	if r.metrics != nil {
		r.metrics.RecordRoutesRemoved(removed)
		r.metrics.SetMatchers(0)
	}
}

// SetMetrics attaches metrics to a registry built without them. Matchers
// already registered are not counted.
func (r *Registry) SetMetrics(metrics *observability.Metrics) {
	r.metrics = metrics
}

// Len returns the number of matchers in the resolution order.
func (r *Registry) Len() int {
	return len(r.matchers)
}

// match returns the first matcher whose path matches.
func (r *Registry) match(path string) *RecordMatcher {
	for _, m := range r.matchers {
		if m.parser.Match(path) {
			return m
		}
	}
	return nil
}

func (r *Registry) warn(msg string, fields ...observability.Field) {
	if r.warnings {
		r.logger.Warn(msg, fields...)
	}
}

// builder compiles a definition tree without touching the registry so a
// failing path leaves the registry as it was.
type builder struct {
	registry *Registry
	parent   *RecordMatcher
	roots    []*RecordMatcher
	steps    []buildStep
}

type buildStep struct {
	matcher  *RecordMatcher
	replaces bool
}

// add builds the matchers of def and its aliases, then recurses into the
// children of each. original is the canonical matcher when def is the
// positional copy of a child under an alias. It returns the canonical
// matcher of def, or nil when def is built under an alias.
func (b *builder) add(def RouteDefinition, parent, original *RecordMatcher) (*RecordMatcher, error) {
	r := b.registry

	main := normalizeRecord(def)
	var canonical *Record
	if original != nil {
		canonical = original.Record
		main.AliasOf = canonical
		main.Views = canonical.Views
	}
	r.checkChildMissingNameWithEmptyPath(main, parent)

	records := []*Record{main}
	for _, alias := range def.Alias {
		records = append(records, main.aliasCopy(alias, canonical))
	}

	options := def.Options.Apply(r.options)

	var first *RecordMatcher
	for _, rec := range records {
		declared := rec.Path
		if parent != nil && !strings.HasPrefix(declared, "/") {
			rec.Path = joinPaths(parent.Record.Path, declared)
		}

		m, err := newRecordMatcher(rec, parent, options)
		if err != nil {
			return nil, err
		}

		if parent != nil && strings.HasPrefix(declared, "/") {
			r.checkMissingParamsInAbsolutePath(m, parent)
		}

		step := buildStep{matcher: m}
		if original != nil {
			original.Alias = append(original.Alias, m)
			r.checkSameParams(original, m)
		} else {
			first = m
			if rec.Name != "" && !m.IsAlias() {
				if err := checkSameNameAsAncestor(rec.Name, parent); err != nil {
					return nil, err
				}
				step.replaces = true
			}
		}
		b.steps = append(b.steps, step)

		switch {
		case parent == nil:
		case parent == b.parent:
			b.roots = append(b.roots, m)
		default:
			parent.adopt(m)
		}

		for i, child := range main.Children {
			var childOriginal *RecordMatcher
			if original != nil && i < len(original.Children) {
				childOriginal = original.Children[i]
			}
			if _, err := b.add(child, m, childOriginal); err != nil {
				return nil, err
			}
		}

		if original == nil {
			original = m
		}
	}

	return first, nil
}
