package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDocument is the store-level sentinel for "no record at that id".
// Store implementations return it; the service translates it into a
// *NotFoundError carrying the offending id.
var ErrNoDocument = errors.New("no matching document")

// FieldViolation is one broken constraint on one payload field.
type FieldViolation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports every violated constraint of a payload,
// in field order. It never carries a partial list: validation does not
// stop at the first broken rule.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, ". ")
}

// InvalidIDError reports an identifier that is not 24 hex characters.
// It is raised before any store access.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return "Invalid bug ID format"
}

// NotFoundError reports a well-formed identifier with no matching record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "No bug found with that ID"
}

// StoreError wraps a persistence failure. Not user-correctable; the HTTP
// layer surfaces it as a generic 500 without exposing internals.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
