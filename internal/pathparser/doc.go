// Package pathparser compiles route path patterns.
//
// A pattern is made of static text and named params:
//
//	/users/:id           single param
//	/users/:id(\d+)      param with a custom regexp
//	/docs/:chapter?      optional param
//	/files/:path*        optional repeatable param (0 or more segments)
//	/tags/:tag+          required repeatable param (1 or more segments)
//	/:pathMatch(.*)*     catch-all
//
// Compile turns a pattern into a Parser that can match paths, extract
// decoded params (Parse), rebuild paths from params (Stringify) and rank
// itself against other patterns (Score, Compare).
//
// # Usage
//
//	p, err := pathparser.Compile("/users/:id", pathparser.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//
//	params, ok := p.Parse("/users/42")
//	// ok == true, params.Get("id") == "42"
//
//	path, err := p.Stringify(pathparser.Params{"id": pathparser.Single("7")})
//	// path == "/users/7"
package pathparser
