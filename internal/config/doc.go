// Package config loads route table files.
//
// A route table is a YAML document holding route definitions:
//
//	apiVersion: routematch.io/v1
//	kind: RouteTable
//	metadata:
//	  name: app
//	spec:
//	  options:
//	    strict: false
//	  routes:
//	    - path: /users/:id
//	      name: user
//	      component: User
//	      alias: /u/:id
//	      children:
//	        - path: posts
//	          name: user-posts
//	          component: Posts
//
// # Features
//
//   - Environment variable substitution with ${VAR:-default} syntax
//   - Structural validation with YAML field paths in errors
//   - Compilation of every route before a table is accepted
//   - File watching for hot reload
//
// # Usage
//
//	table, err := config.LoadConfig("routes.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.ValidateConfig(table); err != nil {
//	    return err
//	}
//
//	w, err := config.NewWatcher("routes.yaml", func(t *config.RouteTable) {
//	    // apply t
//	})
package config
