// Package errors provides structured error types for trackermeta.
//
// Every failure surfaced by the resolver carries a machine-readable [Code]
// so callers can tell a transient network problem from an upstream layout
// change or a bad API key without string matching:
//
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: transport failures, retriable
//   - UNAUTHORIZED, BAD_REQUEST, NOT_FOUND: remote refused the request
//   - ANCHOR_MISMATCH, FIELD_MISSING: the document no longer has the
//     expected structure
//   - VALIDATION: a field was found but its content is malformed
//   - CONFIG: the anchor override file could not be loaded
//
// # Usage
//
//	err := errors.Anchor("download line", line)
//	if errors.Is(err, errors.ErrCodeAnchorMismatch) {
//	    // upstream layout drifted; supply a line-overrides file
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Transport errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Remote refusals
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeBadRequest   Code = "BAD_REQUEST"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Document structure errors
	ErrCodeAnchorMismatch Code = "ANCHOR_MISMATCH"
	ErrCodeFieldMissing   Code = "FIELD_MISSING"
	ErrCodeParse          Code = "PARSE_ERROR"

	// Content errors
	ErrCodeValidation Code = "VALIDATION"

	// Configuration errors
	ErrCodeConfig Code = "CONFIG"

	// Internal errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
)

// Reason refines a VALIDATION error.
type Reason string

const (
	ReasonNotANumber   Reason = "not a number"
	ReasonBadTimestamp Reason = "bad timestamp"
	ReasonBadSize      Reason = "bad size"
	ReasonEmpty        Reason = "empty"
)

// Error is a structured error with a code and optional cause.
//
// Field names the document field, anchor or XML tag involved and Value holds
// the raw text that was rejected, when there is one.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Field, anchor or tag name (optional)
	Value   string // Raw offending value (optional)
	Reason  Reason // Validation reason (VALIDATION only)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Anchor reports that the line an anchor points at is absent or does not
// have the expected shape.
func Anchor(field, value string) *Error {
	return &Error{
		Code:    ErrCodeAnchorMismatch,
		Message: fmt.Sprintf("anchor %q does not match the document", field),
		Field:   field,
		Value:   value,
	}
}

// Missing reports a required XML element that is not in the document.
func Missing(tag string) *Error {
	return &Error{
		Code:    ErrCodeFieldMissing,
		Message: fmt.Sprintf("required element <%s> not found", tag),
		Field:   tag,
	}
}

// Invalid reports a field whose raw content could not be converted.
func Invalid(field string, reason Reason, value string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("field %q: %s", field, reason),
		Field:   field,
		Value:   value,
		Reason:  reason,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldOf returns the field name attached to err, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must never be retried: the remote rejected
// the request itself or the document could not be understood.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnauthorized, ErrCodeBadRequest, ErrCodeNotFound,
		ErrCodeAnchorMismatch, ErrCodeFieldMissing, ErrCodeParse, ErrCodeValidation,
		ErrCodeInvalidInput, ErrCodeUnsupported:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
