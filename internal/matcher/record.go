package matcher

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routematch/internal/pathparser"
)

// DefaultView is the slot name of a definition's single unnamed view.
const DefaultView = "default"

// RouteDefinition is a route as declared by the embedding application or a
// route table file.
type RouteDefinition struct {
	Path       string               `yaml:"path" json:"path"`
	Name       string               `yaml:"name,omitempty" json:"name,omitempty"`
	Alias      AliasList            `yaml:"alias,omitempty" json:"alias,omitempty"`
	Options    *RecordOptions       `yaml:"options,omitempty" json:"options,omitempty"`
	Meta       map[string]any       `yaml:"meta,omitempty" json:"meta,omitempty"`
	Component  string               `yaml:"component,omitempty" json:"component,omitempty"`
	Components map[string]string    `yaml:"components,omitempty" json:"components,omitempty"`
	Props      *PropsRule           `yaml:"props,omitempty" json:"props,omitempty"`
	ViewProps  map[string]PropsRule `yaml:"viewProps,omitempty" json:"viewProps,omitempty" validate:"omitempty,dive"`
	Redirect   string               `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Children   []RouteDefinition    `yaml:"children,omitempty" json:"children,omitempty" validate:"omitempty,dive"`
}

// AliasList is the alias paths of a definition. In YAML it is either a
// single path or a sequence of paths.
type AliasList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AliasList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = AliasList{node.Value}
		return nil
	}
	var paths []string
	if err := node.Decode(&paths); err != nil {
		return err
	}
	*a = paths
	return nil
}

// RecordOptions overrides the registry-wide path options for one
// definition. Nil fields keep the registry value.
type RecordOptions struct {
	Sensitive *bool `yaml:"sensitive,omitempty" json:"sensitive,omitempty"`
	Strict    *bool `yaml:"strict,omitempty" json:"strict,omitempty"`
	End       *bool `yaml:"end,omitempty" json:"end,omitempty"`
}

// Apply returns base with the non-nil fields of o applied.
func (o *RecordOptions) Apply(base pathparser.Options) pathparser.Options {
	if o == nil {
		return base
	}
	if o.Sensitive != nil {
		base.Sensitive = *o.Sensitive
	}
	if o.Strict != nil {
		base.Strict = *o.Strict
	}
	if o.End != nil {
		base.End = *o.End
	}
	return base
}

// Kind is the shape of a normalized record, decided once at normalization.
type Kind uint8

const (
	// KindGroup records only nest children and render nothing.
	KindGroup Kind = iota
	// KindLeaf records have at least one view slot.
	KindLeaf
	// KindRedirect records point at another location and have no views.
	KindRedirect
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindRedirect:
		return "redirect"
	default:
		return "group"
	}
}

// MarshalText renders the kind name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PropsMode selects how a view receives props.
type PropsMode string

const (
	// PropsNone passes no props.
	PropsNone PropsMode = ""
	// PropsParams passes the route params as props.
	PropsParams PropsMode = "params"
	// PropsStatic passes a fixed set of values.
	PropsStatic PropsMode = "static"
)

// PropsRule describes the props forwarded to one view slot.
type PropsRule struct {
	Mode   PropsMode      `yaml:"mode,omitempty" json:"mode,omitempty" validate:"omitempty,oneof=params static"`
	Values map[string]any `yaml:"values,omitempty" json:"values,omitempty"`
}

// Resolve computes the props of a view from the params of a location.
func (r PropsRule) Resolve(params pathparser.Params) map[string]any {
	switch r.Mode {
	case PropsParams:
		out := make(map[string]any, len(params))
		for name, p := range params {
			if p.IsList() {
				out[name] = p.Values()
				continue
			}
			out[name] = p.String()
		}
		return out
	case PropsStatic:
		out := make(map[string]any, len(r.Values))
		for k, v := range r.Values {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}

// ViewSlots holds the view of every named slot of a record. Alias records
// share the ViewSlots of their canonical record, so a view resolved later
// through SetView is visible from both.
type ViewSlots struct {
	views map[string]string
}

func newViewSlots(views map[string]string) *ViewSlots {
	s := &ViewSlots{views: make(map[string]string, len(views))}
	for name, view := range views {
		s.views[name] = view
	}
	return s
}

// View returns the view of a slot.
func (s *ViewSlots) View(slot string) (string, bool) {
	v, ok := s.views[slot]
	return v, ok
}

// SetView replaces the view of a slot.
func (s *ViewSlots) SetView(slot, view string) {
	s.views[slot] = view
}

// Names returns the slot names in lexical order.
func (s *ViewSlots) Names() []string {
	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of slots.
func (s *ViewSlots) Len() int {
	return len(s.views)
}

// MarshalYAML renders the slots as a mapping.
func (s *ViewSlots) MarshalYAML() (interface{}, error) {
	return s.views, nil
}

// Record is the normalized copy of a route definition.
type Record struct {
	// Path is absolute once the record is joined with its parent.
	Path     string
	Name     string
	Kind     Kind
	Views    *ViewSlots
	Props    map[string]PropsRule
	Meta     map[string]any
	Redirect string

	// AliasOf points at the canonical record of an alias copy.
	AliasOf *Record

	// Children are the raw child definitions, used positionally when alias
	// records recurse.
	Children []RouteDefinition
}

// Canonical returns the record an alias copies, or the record itself.
func (r *Record) Canonical() *Record {
	if r.AliasOf != nil {
		return r.AliasOf
	}
	return r
}

// IsAlias reports whether the record is an alias copy.
func (r *Record) IsAlias() bool {
	return r.AliasOf != nil
}

// Matchable reports whether the record can be the target of a resolution.
// Unnamed groups only nest children.
func (r *Record) Matchable() bool {
	return r.Name != "" || r.Kind != KindGroup
}

// normalizeRecord builds the canonical record of a definition.
func normalizeRecord(def RouteDefinition) *Record {
	rec := &Record{
		Path:     def.Path,
		Name:     def.Name,
		Redirect: def.Redirect,
		Meta:     def.Meta,
		Children: def.Children,
	}
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}

	views := def.Components
	if len(views) == 0 && def.Component != "" {
		views = map[string]string{DefaultView: def.Component}
	}

	switch {
	case def.Redirect != "":
		rec.Kind = KindRedirect
		views = nil
	case len(views) > 0:
		rec.Kind = KindLeaf
	default:
		rec.Kind = KindGroup
	}

	rec.Views = newViewSlots(views)
	rec.Props = normalizeProps(def, rec.Views)
	return rec
}

// normalizeProps returns one rule per view slot. The definition-wide rule
// applies to every slot and per-slot rules override it.
func normalizeProps(def RouteDefinition, views *ViewSlots) map[string]PropsRule {
	props := make(map[string]PropsRule, views.Len())
	for _, slot := range views.Names() {
		var rule PropsRule
		if def.Props != nil {
			rule = *def.Props
		}
		if r, ok := def.ViewProps[slot]; ok {
			rule = r
		}
		props[slot] = rule
	}
	return props
}

// aliasCopy copies r for one alias path. When the definition is itself
// nested under an alias, canonical is the record the copy points at.
func (r *Record) aliasCopy(path string, canonical *Record) *Record {
	if canonical == nil {
		canonical = r
	}
	cp := *r
	cp.Path = path
	cp.AliasOf = canonical
	cp.Views = canonical.Views
	return &cp
}

// joinPaths joins a relative child path to its parent path.
func joinPaths(parent, child string) string {
	if child == "" {
		return parent
	}
	if len(parent) > 0 && parent[len(parent)-1] == '/' {
		return parent + child
	}
	return parent + "/" + child
}
