package pathparser

import (
	"encoding/json"
	"strings"
)

// Param is the value of one route parameter: either a single string or an
// ordered list of strings for repeatable params.
type Param struct {
	values   []string
	repeated bool
}

// Single creates a single-valued param.
func Single(value string) Param {
	return Param{values: []string{value}}
}

// List creates a list param, as produced by repeatable params.
func List(values ...string) Param {
	return Param{values: append([]string(nil), values...), repeated: true}
}

// IsList reports whether the param holds a list.
func (p Param) IsList() bool {
	return p.repeated
}

// Values returns a copy of the param values.
func (p Param) Values() []string {
	return append([]string(nil), p.values...)
}

// String returns the value of a single param, or the list joined with "/".
func (p Param) String() string {
	return strings.Join(p.values, "/")
}

// IsEmpty reports whether the param carries no text at all.
func (p Param) IsEmpty() bool {
	for _, v := range p.values {
		if v != "" {
			return false
		}
	}
	return true
}

// MarshalYAML renders single params as a string and lists as a sequence.
func (p Param) MarshalYAML() (interface{}, error) {
	if p.repeated {
		return p.Values(), nil
	}
	return p.String(), nil
}

// MarshalJSON renders single params as a string and lists as an array.
func (p Param) MarshalJSON() ([]byte, error) {
	if p.repeated {
		return json.Marshal(p.Values())
	}
	return json.Marshal(p.String())
}

// Params maps param names to their values.
type Params map[string]Param

// Get returns the string form of a param, or "" when absent.
func (p Params) Get(name string) string {
	if v, ok := p[name]; ok {
		return v.String()
	}
	return ""
}

// Clone returns a shallow copy of the params.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Pick returns the params whose names are listed.
func (p Params) Pick(names []string) Params {
	out := make(Params, len(names))
	for _, name := range names {
		if v, ok := p[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Merge returns a copy of p overridden by every entry of other.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ParseStrings builds params from plain strings, as given on a command line.
// Values containing "/" stay single; callers build lists with List.
func ParseStrings(values map[string]string) Params {
	out := make(Params, len(values))
	for k, v := range values {
		out[k] = Single(v)
	}
	return out
}
