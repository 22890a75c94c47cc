package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routematch/internal/pathparser"
	"github.com/vyrodovalexey/routematch/internal/util"
)

func userRoutes(t *testing.T) *Registry {
	t.Helper()

	r := New()
	mustAdd(t, r, RouteDefinition{
		Path:      "/users/:id",
		Name:      "user",
		Component: "User",
		Meta:      map[string]any{"auth": true, "layout": "main"},
		Children: []RouteDefinition{
			{Path: "posts/:page?", Name: "user-posts", Component: "Posts", Meta: map[string]any{"layout": "wide"}},
			{Path: "profile", Name: "user-profile", Component: "Profile"},
		},
	})
	mustAdd(t, r, RouteDefinition{Path: "/:pathMatch(.*)*", Name: "not-found", Component: "NotFound"})
	return r
}

func TestRequest_Mode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeName, Request{Name: "a", Path: "/a"}.Mode())
	assert.Equal(t, ModePath, Request{Path: "/a"}.Mode())
	assert.Equal(t, ModeRelative, Request{}.Mode())
	assert.Equal(t, ModeRelative, Request{Params: pathparser.Params{"id": pathparser.Single("1")}}.Mode())
}

func TestRegistry_Resolve_ByName(t *testing.T) {
	t.Parallel()

	r := New()
	mustAdd(t, r, RouteDefinition{Path: "/users/:id", Name: "user", Component: "User"})

	loc, err := r.Resolve(Request{
		Name:   "user",
		Params: pathparser.Params{"id": pathparser.Single("42")},
	}, Location{Path: "/anywhere"})

	require.NoError(t, err)
	assert.Equal(t, "user", loc.Name)
	assert.Equal(t, "/users/42", loc.Path)
	assert.Equal(t, pathparser.Params{"id": pathparser.Single("42")}, loc.Params)
	require.Len(t, loc.Matched, 1)
	assert.Equal(t, "/users/:id", loc.Matched[0].Path)
}

func TestRegistry_Resolve_ByName_CarriesCurrentParams(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	current, err := r.Resolve(Request{Path: "/users/7/posts/2"}, Location{})
	require.NoError(t, err)
	require.Equal(t, "user-posts", current.Name)

	loc, err := r.Resolve(Request{Name: "user-profile"}, current)
	require.NoError(t, err)
	assert.Equal(t, "/users/7/profile", loc.Path)
	assert.Equal(t, pathparser.Params{"id": pathparser.Single("7")}, loc.Params)

	// explicit params win over the current location
	loc, err = r.Resolve(Request{
		Name:   "user-profile",
		Params: pathparser.Params{"id": pathparser.Single("8")},
	}, current)
	require.NoError(t, err)
	assert.Equal(t, "/users/8/profile", loc.Path)
}

func TestRegistry_Resolve_ByName_DropsOptionalCurrentParams(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	current, err := r.Resolve(Request{Path: "/users/7/posts/2"}, Location{})
	require.NoError(t, err)

	loc, err := r.Resolve(Request{Name: "user-posts"}, current)
	require.NoError(t, err)
	assert.Equal(t, "/users/7/posts", loc.Path)
	assert.NotContains(t, loc.Params, "page")
}

func TestRegistry_Resolve_ByName_DiscardsUnknownParams(t *testing.T) {
	t.Parallel()

	r, logs := observedRegistry()
	mustAdd(t, r, RouteDefinition{Path: "/users/:id", Name: "user", Component: "User"})

	loc, err := r.Resolve(Request{
		Name: "user",
		Params: pathparser.Params{
			"id":    pathparser.Single("1"),
			"stale": pathparser.Single("x"),
		},
	}, Location{})

	require.NoError(t, err)
	assert.Equal(t, "/users/1", loc.Path)
	assert.Equal(t, pathparser.Params{"id": pathparser.Single("1")}, loc.Params)

	warnings := logs.FilterMessage("discarded params unknown to the target route").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, []interface{}{"stale"}, warnings[0].ContextMap()["params"])
}

func TestRegistry_Resolve_ByName_Errors(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	_, err := r.Resolve(Request{Name: "missing"}, Location{})
	require.Error(t, err)
	var notFound *util.MatcherNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Name)

	_, err = r.Resolve(Request{Name: "user"}, Location{})
	require.Error(t, err)
	var stringifyErr *util.StringifyError
	require.True(t, errors.As(err, &stringifyErr))
	assert.Equal(t, "id", stringifyErr.Param)
	assert.True(t, util.IsInvalidInput(err))
}

func TestRegistry_Resolve_ByPath(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	loc, err := r.Resolve(Request{Path: "/users/7/posts"}, Location{})
	require.NoError(t, err)

	assert.Equal(t, "user-posts", loc.Name)
	assert.Equal(t, "/users/7/posts", loc.Path)
	assert.Equal(t, pathparser.Params{"id": pathparser.Single("7")}, loc.Params)
	require.Len(t, loc.Matched, 2)
	assert.Equal(t, "user", loc.Matched[0].Name)
	assert.Equal(t, "user-posts", loc.Matched[1].Name)
	assert.Equal(t, map[string]any{"auth": true, "layout": "wide"}, loc.Meta)
}

func TestRegistry_Resolve_ByPath_CatchAll(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	loc, err := r.Resolve(Request{Path: "/some/where"}, Location{})
	require.NoError(t, err)

	assert.Equal(t, "not-found", loc.Name)
	assert.Equal(t, pathparser.Params{"pathMatch": pathparser.List("some", "where")}, loc.Params)
}

func TestRegistry_Resolve_ByPath_Unmatched(t *testing.T) {
	t.Parallel()

	r, logs := observedRegistry()
	mustAdd(t, r, RouteDefinition{Path: "/users/:id", Name: "user", Component: "User"})

	loc, err := r.Resolve(Request{Path: "/nowhere"}, Location{})
	require.NoError(t, err)

	assert.False(t, loc.Found())
	assert.Nil(t, loc.Leaf())
	assert.Empty(t, loc.Name)
	assert.Equal(t, "/nowhere", loc.Path)
	assert.Empty(t, loc.Params)
	assert.NotNil(t, loc.Params)
	assert.Empty(t, loc.Matched)

	_, err = r.Resolve(Request{Path: "users/1"}, Location{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("relative path cannot be resolved without an absolute base").Len())
}

func TestRegistry_Resolve_Relative(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	current, err := r.Resolve(Request{Path: "/users/7/posts"}, Location{})
	require.NoError(t, err)

	loc, err := r.Resolve(Request{Params: pathparser.Params{"page": pathparser.Single("3")}}, current)
	require.NoError(t, err)
	assert.Equal(t, "user-posts", loc.Name)
	assert.Equal(t, "/users/7/posts/3", loc.Path)
	assert.Equal(t, pathparser.Params{
		"id":   pathparser.Single("7"),
		"page": pathparser.Single("3"),
	}, loc.Params)

	// an unnamed current location is matched again by its path
	loc, err = r.Resolve(Request{Params: pathparser.Params{"id": pathparser.Single("9")}},
		Location{Path: "/users/7/profile", Params: pathparser.Params{"id": pathparser.Single("7")}})
	require.NoError(t, err)
	assert.Equal(t, "/users/9/profile", loc.Path)
}

func TestRegistry_Resolve_Relative_NotFound(t *testing.T) {
	t.Parallel()

	r := New()
	mustAdd(t, r, RouteDefinition{Path: "/a", Name: "a", Component: "A"})

	_, err := r.Resolve(Request{}, Location{Name: "gone", Path: "/gone"})
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
	assert.Contains(t, err.Error(), `"gone"`)

	_, err = r.Resolve(Request{}, Location{Path: "/elsewhere"})
	require.Error(t, err)
	var notFound *util.MatcherNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "/elsewhere", notFound.Path)
}

func TestRegistry_Resolve_AfterRemoval(t *testing.T) {
	t.Parallel()

	r := New()
	remove := mustAdd(t, r, RouteDefinition{Path: "/a", Name: "a", Component: "A"})

	loc, err := r.Resolve(Request{Path: "/a"}, Location{})
	require.NoError(t, err)
	assert.True(t, loc.Found())

	remove()

	loc, err = r.Resolve(Request{Path: "/a"}, Location{})
	require.NoError(t, err)
	assert.False(t, loc.Found())

	_, err = r.Resolve(Request{Name: "a"}, Location{})
	assert.True(t, util.IsNotFound(err))
}

func TestLocation_ViewProps(t *testing.T) {
	t.Parallel()

	r := New()
	mustAdd(t, r, RouteDefinition{
		Path:       "/users/:id",
		Name:       "user",
		Components: map[string]string{"default": "User", "side": "Side"},
		Props:      &PropsRule{Mode: PropsParams},
		ViewProps:  map[string]PropsRule{"side": {Mode: PropsStatic, Values: map[string]any{"compact": true}}},
	})

	loc, err := r.Resolve(Request{Path: "/users/42"}, Location{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "42"}, loc.ViewProps(0, "default"))
	assert.Equal(t, map[string]any{"compact": true}, loc.ViewProps(0, "side"))
	assert.Nil(t, loc.ViewProps(0, "missing"))
	assert.Nil(t, loc.ViewProps(1, "default"))
	assert.Nil(t, loc.ViewProps(-1, "default"))
}

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	r := userRoutes(t)

	for _, path := range []string{"/users/1", "/users/1/posts", "/users/1/posts/4", "/users/1/profile", "/x/y/z"} {
		loc, err := r.Resolve(Request{Path: path}, Location{})
		require.NoError(t, err)
		require.True(t, loc.Found(), path)

		again, err := r.Resolve(Request{Name: loc.Name, Params: loc.Params}, Location{})
		require.NoError(t, err)
		assert.Equal(t, path, again.Path)
		assert.Equal(t, loc.Params, again.Params)
		assert.Equal(t, loc.Matched, again.Matched)
	}
}
