// Package errors provides structured error types for publiccodelooks.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages that tell the user what to do next
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - NETWORK_*, RATE_LIMITED: Upstream failures
//   - UNAUTHORIZED: Credential problems
//
// # Fetch Errors
//
// Calls against the code-hosting API fail with a [FetchError], whose [Kind]
// separates the three outcomes a caller must handle differently:
//
//   - [KindRateLimited]: wait (see RetryAfter) and try again
//   - [KindUnauthorized]: fix the credential
//   - [KindUpstream]: generic failure, retry later
//
// Use [KindOf] to classify any error chain:
//
//	if errors.KindOf(err) == errors.KindRateLimited {
//	    // back off
//	}
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidQuery Code = "INVALID_QUERY"
	ErrCodeInvalidRepo  Code = "INVALID_REPO"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Upstream errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *FetchError with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds neither an *Error nor a *FetchError.
func GetCode(err error) Code {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Code()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Kind classifies a failed call against the code-hosting API.
type Kind int

const (
	// KindUnknown is returned by [KindOf] for errors that are not fetch errors.
	KindUnknown Kind = iota
	// KindRateLimited means the upstream quota is exhausted.
	KindRateLimited
	// KindUnauthorized means the credential is missing, bad or expired.
	KindUnauthorized
	// KindUpstream covers 5xx responses, transport failures and malformed payloads.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// FetchError is returned when a request to the code-hosting API fails.
type FetchError struct {
	Kind       Kind
	Message    string
	StatusCode int           // HTTP status, 0 for transport failures
	RetryAfter time.Duration // Only set for KindRateLimited, 0 if unknown
	Cause      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := e.Message
	if e.Kind == KindRateLimited && e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter.Round(time.Second))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Cause }

// Code maps the fetch kind onto the package error codes.
func (e *FetchError) Code() Code {
	switch e.Kind {
	case KindRateLimited:
		return ErrCodeRateLimited
	case KindUnauthorized:
		return ErrCodeUnauthorized
	default:
		return ErrCodeNetwork
	}
}

// RateLimited creates a FetchError of kind KindRateLimited.
func RateLimited(retryAfter time.Duration, format string, args ...any) *FetchError {
	return &FetchError{Kind: KindRateLimited, Message: fmt.Sprintf(format, args...), RetryAfter: retryAfter}
}

// Unauthorized creates a FetchError of kind KindUnauthorized.
func Unauthorized(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Upstream creates a FetchError of kind KindUpstream wrapping cause.
func Upstream(cause error, format string, args ...any) *FetchError {
	return &FetchError{Kind: KindUpstream, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the fetch kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// RetryAfter returns how long the caller should wait before retrying err.
// It is zero unless err is a rate-limit error carrying a hint.
func RetryAfter(err error) time.Duration {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == KindRateLimited {
		return fe.RetryAfter
	}
	return 0
}

// Explain returns the message shown to a user when a page cannot be loaded.
// Each kind asks for a different action: wait, fix the credential, or retry.
func Explain(err error) string {
	switch KindOf(err) {
	case KindRateLimited:
		if d := RetryAfter(err); d > 0 {
			return fmt.Sprintf("GitHub API rate limit reached. Wait %s and try again.", d.Round(time.Second))
		}
		return "GitHub API rate limit reached. Wait a while and try again."
	case KindUnauthorized:
		return "GitHub rejected the access token. Check that GITHUB_TOKEN is set and valid."
	case KindUpstream:
		return "Could not reach GitHub. Check your connection and try again."
	}
	if Is(err, ErrCodeInvalidInput) || Is(err, ErrCodeInvalidQuery) || Is(err, ErrCodeInvalidRepo) {
		return UserMessage(err)
	}
	return "Something went wrong while loading results. Try again."
}
