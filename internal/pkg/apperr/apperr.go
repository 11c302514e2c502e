// Package apperr defines the error taxonomy shared by the repo, service
// and handler layers. Repos translate driver errors into these types so
// that callers never have to import gorm to classify a failure.
package apperr

import "fmt"

// ValidationError marks a malformed or missing argument, caught before
// the request reaches the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a single-row lookup that matched nothing. Filter is
// a human-readable description of the lookup, e.g. `slug="acme-launch"`.
type NotFoundError struct {
	Entity string
	Filter string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (%s)", e.Entity, e.Filter)
}

// NotFound builds a NotFoundError for an entity and lookup description.
func NotFound(entity, filterFormat string, args ...any) *NotFoundError {
	return &NotFoundError{Entity: entity, Filter: fmt.Sprintf(filterFormat, args...)}
}

// StoreError marks a query or command the underlying store rejected or
// failed. Op names the repo operation, Entity the record kind.
type StoreError struct {
	Op     string
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps a driver error with the failed operation and entity kind.
func Store(op, entity string, err error) *StoreError {
	return &StoreError{Op: op, Entity: entity, Err: err}
}

// ConfigurationError marks missing or invalid startup configuration. It is
// raised once during bootstrap and terminates the process.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Msg }

// Configuration builds a ConfigurationError from a format string.
func Configuration(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}
