// Package health provides liveness and readiness probe endpoints.
//
// # Usage
//
//	checker := health.NewChecker(version, logger)
//	checker.RegisterCheck("routes", health.RoutesCheck(table))
//
//	mux := http.NewServeMux()
//	checker.Register(mux)
package health
