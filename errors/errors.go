// Package errors provides the structured error type shared by the
// authentication gateway, key-set cache, and configuration loader.
// Token errors form a closed taxonomy; denied access decisions are not
// errors at all and live in the policy package.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsTokenError reports whether err belongs to the token error taxonomy.
func IsTokenError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeTokenExpired, ErrCodeInvalidSignature, ErrCodeUnknownKeyID, ErrCodeMalformedClaims:
		return true
	}
	return false
}

// --- Token Error Constructors ---

// TokenExpired creates a new AppError for an expired bearer token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "The token has expired.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidSignature creates a new AppError for a token whose signature
// did not verify against the key set.
func InvalidSignature() *AppError {
	return &AppError{
		Code: ErrCodeInvalidSignature, Message: "The token signature is invalid.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// UnknownKeyID creates a new AppError for a token signed with a key id
// absent from the published key set.
func UnknownKeyID(kid string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownKeyID, Message: "The token was signed with an unknown key.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"kid": kid},
	}
}

// MalformedClaims creates a new AppError for a missing or malformed claim.
func MalformedClaims(claim, reason string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedClaims, Message: fmt.Sprintf("Malformed claim %q: %s", claim, reason),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"claim": claim},
	}
}

// --- Other Constructors ---

// Unauthorized creates a new AppError for a request with no usable credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// KeySetUnavailable creates a new AppError for an unreachable key-set
// endpoint with no remaining usable snapshot.
func KeySetUnavailable(cause error) *AppError {
	return &AppError{
		Code: ErrCodeKeySetUnavailable, Message: "The verification key set is unavailable.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Cause: cause,
	}
}

// InvalidInput creates a new AppError for invalid configuration input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}
