package aiagent

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinels for the library error taxonomy. The typed errors below match them with errors.Is.
var (
	// ErrConfig marks invalid construction-time configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrValidation marks invalid per-call input, rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrResource marks a failing file or other local resource.
	ErrResource = errors.New("resource error")
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the user provided invalid input that must be corrected.
	ErrorUserInput ErrorCategory = "user_input"
)

// ErrorKind narrows a provider failure to the condition that caused it.
type ErrorKind string

const (
	KindUnknown        ErrorKind = "unknown"
	KindRateLimit      ErrorKind = "rate_limit"
	KindQuota          ErrorKind = "quota"
	KindServer         ErrorKind = "server"
	KindAuth           ErrorKind = "auth"
	KindInvalidRequest ErrorKind = "invalid_request"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Kind() ErrorKind
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized provider error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	K          ErrorKind
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Kind returns the error kind, KindUnknown when unset.
func (e *Error) Kind() ErrorKind {
	if e.K == "" {
		return KindUnknown
	}
	return e.K
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewProviderError builds a categorized error from an HTTP status code and kind.
func NewProviderError(msg string, statusCode int, kind ErrorKind, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		Cat:        CategoryForStatus(statusCode),
		K:          kind,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, K: KindForStatus(statusCode), Code: statusCode, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, K: KindForStatus(statusCode), Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, K: KindForStatus(statusCode), Code: statusCode, Cause: cause}
}

// CategoryForStatus determines the error category from an HTTP status code.
func CategoryForStatus(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// KindForStatus maps an HTTP status code to the most likely error kind.
func KindForStatus(code int) ErrorKind {
	switch {
	case code == 429:
		return KindRateLimit
	case code >= 500 && code < 600:
		return KindServer
	case code == 401 || code == 403:
		return KindAuth
	case code == 400 || code == 404 || code == 422:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// IsTransient returns true if the error is categorized as transient.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// KindOf returns the kind of a categorized error, or KindUnknown.
func KindOf(err error) ErrorKind {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Kind()
	}
	return KindUnknown
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// ConfigError reports invalid configuration detected at construction.
type ConfigError struct {
	// Fields lists every offending field.
	Fields []string
	Reason string
}

// Error returns a message listing the offending fields.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

// Is matches ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ValidationError reports invalid input to a single call.
type ValidationError struct {
	Field  string
	Reason string
}

// Error returns a message naming the field.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ResourceError reports a failing file or other local resource.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

// Error returns a message with operation, path and cause.
func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Is matches ErrResource.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResource
}
