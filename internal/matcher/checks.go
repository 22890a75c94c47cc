package matcher

import (
	"sort"

	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/pathparser"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// checkChildMissingNameWithEmptyPath warns when a named parent has an
// unnamed empty-path child: resolving the parent name would skip the child.
func (r *Registry) checkChildMissingNameWithEmptyPath(rec *Record, parent *RecordMatcher) {
	if parent != nil && parent.Record.Name != "" && rec.Name == "" && rec.Path == "" {
		r.warn("named route has an unnamed child with an empty path; move the name to the child",
			observability.String("parent", parent.Record.Name),
			observability.String("path", parent.Record.Path),
		)
	}
}

// checkMissingParamsInAbsolutePath warns when an absolute child path drops
// a required param of its parent.
func (r *Registry) checkMissingParamsInAbsolutePath(m, parent *RecordMatcher) {
	keys := m.Keys()
	for _, key := range parent.Keys() {
		if !key.Optional && !containsKey(keys, key) {
			r.warn("absolute child path must declare every required param of its parent",
				observability.String("path", m.Record.Path),
				observability.String("parent", parent.Record.Path),
				observability.String("param", key.Name),
			)
			return
		}
	}
}

// checkSameParams warns when an alias and its original do not declare the
// same required params.
func (r *Registry) checkSameParams(original, alias *RecordMatcher) {
	originalKeys, aliasKeys := original.Keys(), alias.Keys()
	for _, pair := range [][2][]pathparser.Key{{originalKeys, aliasKeys}, {aliasKeys, originalKeys}} {
		for _, key := range pair[0] {
			if !key.Optional && !containsKey(pair[1], key) {
				r.warn("alias and original route must declare the same required params",
					observability.String("alias", alias.Record.Path),
					observability.String("original", original.Record.Path),
					observability.String("param", key.Name),
				)
				return
			}
		}
	}
}

// checkSameNameAsAncestor rejects a child that reuses an ancestor name.
func checkSameNameAsAncestor(name string, parent *RecordMatcher) error {
	for ancestor := parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.Record.Name == name {
			return util.NewDefinitionError(name,
				"a route cannot have the same name as its ancestor at "+ancestor.Record.Path)
		}
	}
	return nil
}

// checkDiscardedParams warns about params a by-name request supplies but the
// target does not declare.
func (r *Registry) checkDiscardedParams(m *RecordMatcher, params pathparser.Params) {
	var discarded []string
	for name := range params {
		if !m.parser.HasKey(name) {
			discarded = append(discarded, name)
		}
	}
	if len(discarded) > 0 {
		sort.Strings(discarded)
		r.warn("discarded params unknown to the target route",
			observability.String("name", m.Record.Name),
			observability.Strings("params", discarded),
		)
	}
}

func containsKey(keys []pathparser.Key, key pathparser.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
