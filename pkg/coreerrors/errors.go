// Package coreerrors defines the transport-independent error kinds shared by
// every component of the decomposition and context-curation engine.
package coreerrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, independent of transport.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrResourceNotFound = errors.New("resource not found")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrTimeout = errors.New("timeout")
	ErrInvalidModelOutput = errors.New("invalid model output")
	ErrSchemaViolation = errors.New("schema violation")
	ErrCancelled = errors.New("cancelled")
	ErrInternal = errors.New("internal error")
)

// Kind identifies one of the error kinds above without requiring callers to
// compare against the sentinel directly.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindResourceNotFound Kind = "resource_not_found"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindTimeout Kind = "timeout"
	KindInvalidModelOutput Kind = "invalid_model_output"
	KindSchemaViolation Kind = "schema_violation"
	KindCancelled Kind = "cancelled"
	KindInternal Kind = "internal"
)

// sentinels maps each Kind to its package-level sentinel error.
var sentinels = map[Kind]error{
	KindInvalidInput: ErrInvalidInput,
	KindResourceNotFound: ErrResourceNotFound,
	KindProviderUnavailable: ErrProviderUnavailable,
	KindTimeout: ErrTimeout,
	KindInvalidModelOutput: ErrInvalidModelOutput,
	KindSchemaViolation: ErrSchemaViolation,
	KindCancelled: ErrCancelled,
	KindInternal: ErrInternal,
}

// recoverableKinds marks which kinds a caller can reasonably retry:
// invalid_input, resource_not_found,
// and timeout are recoverable (retry with altered input is sensible);
// internal and schema_violation are not. The rest default to non-
// recoverable.
var recoverableKinds = map[Kind]bool{
	KindInvalidInput: true,
	KindResourceNotFound: true,
	KindTimeout: true,
}

// CoreError is the structural error type every component returns for a
// classified failure. It mirrors the {Component, Field, Err} shape of
// pkg/config's ValidationError/LoadError, generalized to {Component, Kind,
// Message, Err}.
type CoreError struct {
	Component string // component that raised the error (e.g. "llmgateway", "decompose")
	Kind Kind
	Message string
	Err error // underlying cause, if any
}

// New builds a CoreError for kind with no underlying cause.
func New(component string, kind Kind, message string) *CoreError {
	return &CoreError{Component: component, Kind: kind, Message: message}
}

// Wrap builds a CoreError for kind, chaining err as its cause.
func Wrap(component string, kind Kind, message string, err error) *CoreError {
	return &CoreError{Component: component, Kind: kind, Message: message, Err: err}
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Component, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Kind, e.Message)
}

// Unwrap exposes both the underlying cause (if any) and the kind's sentinel,
// so errors.Is(err, coreerrors.ErrTimeout) works whether or not the caller
// wrapped a lower-level error.
func (e *CoreError) Unwrap() []error {
	sentinel := sentinels[e.Kind]
	if e.Err != nil {
		return []error{sentinel, e.Err}
	}
	return []error{sentinel}
}

// Recoverable reports whether the caller may sensibly retry with altered
// input, per its classification. Derived from Kind, never stored
// redundantly by callers.
func (e *CoreError) Recoverable() bool {
	return recoverableKinds[e.Kind]
}

// IsRecoverable reports whether err (a *CoreError or otherwise) should be
// treated as recoverable by the caller.
func IsRecoverable(err error) bool {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Recoverable()
	}
	return false
}

// KindOf extracts the Kind from err, returning KindInternal if err is not a
// *CoreError or wraps none of the recognized sentinels.
func KindOf(err error) Kind {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}
