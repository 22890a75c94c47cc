package matcher

import (
	"github.com/vyrodovalexey/routematch/internal/pathparser"
)

// Mode is the kind of a resolution request.
type Mode string

const (
	// ModeName resolves a route by name and params.
	ModeName Mode = "name"
	// ModePath resolves a literal path.
	ModePath Mode = "path"
	// ModeRelative re-resolves the current location with new params.
	ModeRelative Mode = "relative"
)

// Request is a navigation target. Name takes precedence over Path; when
// both are empty the request is relative to the current location.
type Request struct {
	Name   string
	Path   string
	Params pathparser.Params
}

// Mode returns how the request is resolved.
func (r Request) Mode() Mode {
	switch {
	case r.Name != "":
		return ModeName
	case r.Path != "":
		return ModePath
	default:
		return ModeRelative
	}
}

// Location is the result of a resolution.
type Location struct {
	Name   string            `yaml:"name,omitempty" json:"name,omitempty"`
	Path   string            `yaml:"path" json:"path"`
	Params pathparser.Params `yaml:"params" json:"params"`

	// Matched lists the records from the root ancestor to the target. It is
	// empty when a literal path matched nothing.
	Matched []*Record `yaml:"-" json:"-"`

	// Meta merges the meta of every matched record, deeper records winning.
	Meta map[string]any `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// Found reports whether the location matched a route.
func (l Location) Found() bool {
	return len(l.Matched) > 0
}

// Leaf returns the deepest matched record, or nil.
func (l Location) Leaf() *Record {
	if len(l.Matched) == 0 {
		return nil
	}
	return l.Matched[len(l.Matched)-1]
}

// ViewProps returns the props of a view slot of the record matched at depth.
func (l Location) ViewProps(depth int, slot string) map[string]any {
	if depth < 0 || depth >= len(l.Matched) {
		return nil
	}
	rule, ok := l.Matched[depth].Props[slot]
	if !ok {
		return nil
	}
	return rule.Resolve(l.Params)
}

// mergeMeta folds the meta of the chain root first.
func mergeMeta(matched []*Record) map[string]any {
	meta := make(map[string]any)
	for _, rec := range matched {
		for k, v := range rec.Meta {
			meta[k] = v
		}
	}
	return meta
}
