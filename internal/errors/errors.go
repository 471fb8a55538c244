// Package errors provides domain-specific error handling shared by the
// response adapter, the fosite provider wiring and the HTTP transport.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors categorizing a DomainError.
var (
	// ErrUnauthorized indicates authentication is required or failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller lacks permission.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest indicates invalid request parameters or format.
	ErrBadRequest = errors.New("bad request")

	// ErrEncode indicates a value could not be encoded into an HTTP response.
	ErrEncode = errors.New("encode response")

	// ErrInternal indicates an internal server error.
	ErrInternal = errors.New("internal error")
)

// DomainError wraps an underlying error with the subsystem and operation
// that produced it, plus free-form context for logging.
type DomainError struct {
	// Domain identifies the subsystem (e.g., "response", "token", "provider").
	Domain string

	// Op identifies the operation that failed (e.g., "AddHeader", "ValidateToken").
	Op string

	// Kind is the sentinel error that categorizes this error.
	Kind error

	// Err is the underlying wrapped error, if any.
	Err error

	// Context provides additional key-value pairs for debugging.
	Context map[string]any
}

// New creates a new DomainError. err may be nil.
func New(domain, op string, kind, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Err:     err,
		Context: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %v: %v", e.Domain, e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Domain, e.Op, e.Kind)
}

// Unwrap returns the underlying wrapped error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether the Kind or the wrapped chain matches target.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// WithContext adds a key-value pair to the error's context and returns the error.
func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// LogAttrs flattens the error into slog-style key/value pairs.
func (e *DomainError) LogAttrs() []any {
	attrs := []any{"domain", e.Domain, "op", e.Op}
	if e.Kind != nil {
		attrs = append(attrs, "kind", e.Kind.Error())
	}
	for k, v := range e.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// As is a convenience wrapper around errors.As for *DomainError.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
