package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// MatcherNotFoundError is returned when a name-based or relative resolution
// cannot locate any registered matcher.
type MatcherNotFoundError struct {
	Name string
	Path string
}

// Error implements the error interface.
func (e *MatcherNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no match for route named %q", e.Name)
	}
	return fmt.Sprintf("no match for path %q", e.Path)
}

// Is checks if the error matches the target.
func (e *MatcherNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*MatcherNotFoundError)
	return ok
}

// NewMatcherNotFoundError creates a new MatcherNotFoundError for a route name.
func NewMatcherNotFoundError(name string) *MatcherNotFoundError {
	return &MatcherNotFoundError{Name: name}
}

// NewPathNotFoundError creates a new MatcherNotFoundError for a path.
func NewPathNotFoundError(path string) *MatcherNotFoundError {
	return &MatcherNotFoundError{Path: path}
}

// StringifyError is returned when a path cannot be built from params.
type StringifyError struct {
	Param  string
	Reason string
}

// Error implements the error interface.
func (e *StringifyError) Error() string {
	return fmt.Sprintf("cannot build path: param %q %s", e.Param, e.Reason)
}

// Is checks if the error matches the target.
func (e *StringifyError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*StringifyError)
	return ok
}

// NewStringifyError creates a new StringifyError.
func NewStringifyError(param, reason string) *StringifyError {
	return &StringifyError{Param: param, Reason: reason}
}

// PatternError is returned when a route path cannot be compiled.
type PatternError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid route path %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid route path %q: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*PatternError)
	return ok || errors.Is(e.Cause, target)
}

// NewPatternError creates a new PatternError.
func NewPatternError(path, message string) *PatternError {
	return &PatternError{Path: path, Message: message}
}

// NewPatternErrorWithCause creates a new PatternError with a cause.
func NewPatternErrorWithCause(path, message string, cause error) *PatternError {
	return &PatternError{Path: path, Message: message, Cause: cause}
}

// DefinitionError is returned when a route definition is rejected as a whole,
// for example when a child reuses the name of one of its ancestors.
type DefinitionError struct {
	Name    string
	Message string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid route %q: %s", e.Name, e.Message)
}

// Is checks if the error matches the target.
func (e *DefinitionError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*DefinitionError)
	return ok
}

// NewDefinitionError creates a new DefinitionError.
func NewDefinitionError(name, message string) *DefinitionError {
	return &DefinitionError{Name: name, Message: message}
}

// ConfigError represents a route table configuration error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s (fields: %v)", e.Message, e.Fields)
}

// Is checks if the error matches the target.
func (e *ValidationError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

// AddField adds a field error.
func (e *ValidationError) AddField(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound reports whether err means that no route could be located.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
