// Package matcher keeps the registry of route records and resolves
// navigation requests against it.
//
// Route definitions are nested trees. Each record is normalized once,
// compiled into a RecordMatcher and kept in a sequence ordered by
// pattern specificity, so the first matcher whose pattern matches a path
// is the best one.
//
// # Features
//
//   - Nested routes with relative and absolute child paths
//   - Aliases that match like their original and share its views
//   - Replacement of a route by re-adding its name
//   - Cascading removal of children and aliases
//   - Resolution by name, by path or relative to the current location
//   - Advisory warnings for inconsistent definitions
//
// # Usage
//
//	r := matcher.New(matcher.WithLogger(logger))
//	remove, err := r.AddRoute(matcher.RouteDefinition{
//	    Path:      "/users/:id",
//	    Name:      "user",
//	    Component: "User",
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer remove()
//
//	loc, err := r.Resolve(matcher.Request{Path: "/users/42"}, matcher.Location{})
//	// loc.Name == "user", loc.Params.Get("id") == "42"
//
// A Registry is not safe for concurrent use.
package matcher
