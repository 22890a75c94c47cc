package matcher

import (
	"strings"
	"time"

	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/pathparser"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// Resolve turns a request into a location. current is the location the
// request starts from; it supplies params to by-name requests and the target
// of relative ones.
//
// A literal path that matches nothing is not an error: the location keeps
// the path and has no matched records.
func (r *Registry) Resolve(req Request, current Location) (Location, error) {
	start := time.Now()
	mode := req.Mode()

	loc, err := r.resolve(mode, req, current)

	if r.metrics != nil {
		outcome := observability.OutcomeMatched
		switch {
		case err != nil:
			outcome = observability.OutcomeError
		case !loc.Found():
			outcome = observability.OutcomeUnmatched
		}
		r.metrics.RecordResolve(string(mode), outcome, time.Since(start))
	}
	return loc, err
}

func (r *Registry) resolve(mode Mode, req Request, current Location) (Location, error) {
	var (
		m      *RecordMatcher
		params pathparser.Params
		path   string
		err    error
	)

	switch mode {
	case ModeName:
		var ok bool
		m, ok = r.names[req.Name]
		if !ok {
			return Location{}, util.NewMatcherNotFoundError(req.Name)
		}
		r.checkDiscardedParams(m, req.Params)

		// required params of the target and optional params of its parent
		// carry over from the current location
		inherited := m.parser.RequiredKeyNames()
		if m.Parent != nil {
			inherited = append(inherited, m.Parent.parser.OptionalKeyNames()...)
		}
		params = current.Params.Pick(inherited).Merge(req.Params.Pick(m.parser.KeyNames()))

		path, err = m.parser.Stringify(params)
		if err != nil {
			return Location{}, err
		}

	case ModePath:
		path = req.Path
		if !strings.HasPrefix(path, "/") {
			r.warn("relative path cannot be resolved without an absolute base",
				observability.String("path", path),
				observability.String("current", current.Path),
			)
		}

		m = r.match(path)
		if m == nil {
			return Location{
				Path:   path,
				Params: pathparser.Params{},
				Meta:   map[string]any{},
			}, nil
		}
		params, _ = m.parser.Parse(path)

	default:
		if current.Name != "" {
			m = r.names[current.Name]
		} else {
			m = r.match(current.Path)
		}
		if m == nil {
			if current.Name != "" {
				return Location{}, util.NewMatcherNotFoundError(current.Name)
			}
			return Location{}, util.NewPathNotFoundError(current.Path)
		}

		params = current.Params.Merge(req.Params)
		path, err = m.parser.Stringify(params)
		if err != nil {
			return Location{}, err
		}
	}

	matched := m.chain()
	return Location{
		Name:    m.Record.Name,
		Path:    path,
		Params:  params,
		Matched: matched,
		Meta:    mergeMeta(matched),
	}, nil
}
