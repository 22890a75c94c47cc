package config

import (
	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/pathparser"
)

const (
	// APIVersion is the only supported route table API version.
	APIVersion = "routematch.io/v1"

	// Kind is the kind of every route table document.
	Kind = "RouteTable"

	// DefaultConfigFile is the file name looked up by ResolveConfigPath.
	DefaultConfigFile = "routes.yaml"
)

// RouteTable is a route table document.
type RouteTable struct {
	APIVersion string         `yaml:"apiVersion" json:"apiVersion" validate:"required,startswith=routematch.io/"`
	Kind       string         `yaml:"kind" json:"kind" validate:"required,eq=RouteTable"`
	Metadata   Metadata       `yaml:"metadata" json:"metadata"`
	Spec       RouteTableSpec `yaml:"spec" json:"spec"`
}

// Metadata identifies a route table.
type Metadata struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Labels      map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// RouteTableSpec holds the route definitions of a table.
type RouteTableSpec struct {
	// Options override the default path options of every route in the table.
	Options *matcher.RecordOptions `yaml:"options,omitempty" json:"options,omitempty"`

	Routes []matcher.RouteDefinition `yaml:"routes" json:"routes" validate:"required,min=1,dive"`
}

// PathOptions returns the path options the table's routes are compiled with.
func (t *RouteTable) PathOptions() pathparser.Options {
	return t.Spec.Options.Apply(pathparser.DefaultOptions())
}

// RouteNames returns the names of the top-level routes in declaration
// order. Unnamed routes are skipped.
func (t *RouteTable) RouteNames() []string {
	names := make([]string, 0, len(t.Spec.Routes))
	for i := range t.Spec.Routes {
		if name := t.Spec.Routes[i].Name; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// NewRouteTable returns an empty route table with the given name.
func NewRouteTable(name string) *RouteTable {
	return &RouteTable{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   Metadata{Name: name},
	}
}
