// Package apperr defines the error types the HTTP layer maps onto
// status codes: bad input, missing entity, AI provider failure and
// storage failure are kept distinguishable all the way up.
package apperr

import "fmt"

// ValidationError means a required input field was missing or unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// Missing builds the common "field is required" validation error.
func Missing(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ProviderError wraps a network or provider failure from the generative
// model. Safe to retry at the caller's discretion.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
