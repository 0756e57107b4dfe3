package workflow

import (
	"errors"
	"fmt"
	"strings"

	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// Code tags an engine failure for transport-layer mapping.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidState Code = "INVALID_STATE"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the tagged failure the engine returns across its public boundary.
// Every expected condition carries one of the codes above; the engine never
// panics through this surface.
type Error struct {
	Code    Code
	Field   string
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound reports an unknown request id.
func NotFound(id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("request %s not found", id)}
}

// Forbidden reports a caller lacking the role or identity for a transition.
func Forbidden(trigger domainwf.Trigger, caller string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: fmt.Sprintf("caller %s is not permitted to %s this request", caller, strings.ToLower(trigger.String())),
	}
}

// InvalidState reports a transition that is not legal from the current status.
// The message names the current status and the statuses the transition requires.
func InvalidState(trigger domainwf.Trigger, current domainwf.State, expected ...domainwf.State) *Error {
	names := make([]string, len(expected))
	for i, s := range expected {
		names[i] = s.String()
	}
	return &Error{
		Code: CodeInvalidState,
		Message: fmt.Sprintf("cannot %s request in status %s (requires %s)",
			strings.ToLower(trigger.String()), current, strings.Join(names, " or ")),
	}
}

// Conflict reports a lost-update race: the stored status changed between the
// read and the conditional write. Surfaces as an invalid-state failure.
func Conflict(trigger domainwf.Trigger, expected domainwf.State) *Error {
	return &Error{
		Code: CodeInvalidState,
		Message: fmt.Sprintf("cannot %s request: status is no longer %s",
			strings.ToLower(trigger.String()), expected),
	}
}

// Validation reports a missing or out-of-range input field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

// Internal wraps an unexpected storage failure.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: err}
}

// CodeOf extracts the failure code from an engine error, defaulting to
// CodeInternal for anything untagged.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
