// Package util provides shared error types for the route matcher.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNotFound.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., MatcherNotFoundError, StringifyError).
//     Each type implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// Resolution failures map onto the sentinels as follows:
//
//	MatcherNotFoundError -> ErrNotFound
//	StringifyError       -> ErrInvalidInput
//	PatternError         -> ErrInvalidInput
//	ConfigError          -> ErrConfigInvalid
//	ValidationError      -> ErrConfigInvalid
package util
