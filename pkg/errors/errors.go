package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes
const (
	CodeAppError     = "APP_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeAPIError     = "UPSTREAM_ERROR"
	CodeUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeCache        = "CACHE_ERROR"
)

// Coded is implemented by every error in this package, including the embedding types.
type Coded interface {
	error
	ErrorCode() string
	HTTPStatus() int
}

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) ErrorCode() string {
	return e.Code
}

func (e *AppError) HTTPStatus() int {
	return e.StatusCode
}

func NewAppError(message, code string, statusCode int, ctx map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    ctx,
	}
}

// APIError is a failure talking to an upstream service: transport error, unexpected
// status or a payload that could not be decoded. UpstreamStatus is 0 when no response
// was received.
type APIError struct {
	*AppError
	Service        string
	UpstreamStatus int
}

func NewAPIError(message, service string, upstreamStatus int, ctx map[string]any) *APIError {
	if ctx == nil {
		ctx = map[string]any{}
	}
	ctx["service"] = service
	if upstreamStatus > 0 {
		ctx["upstream_status"] = upstreamStatus
	}
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: http.StatusBadGateway,
			Context:    ctx,
		},
		Service:        service,
		UpstreamStatus: upstreamStatus,
	}
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

// UnavailableError means the upstream was not called at all because it is known to be
// unhealthy or rate limited.
type UnavailableError struct {
	*AppError
	Service    string
	RetryAfter time.Duration
}

func NewUnavailableError(message, service string, retryAfter time.Duration) *UnavailableError {
	return &UnavailableError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUnavailable,
			StatusCode: http.StatusServiceUnavailable,
			Context: map[string]any{
				"service":        service,
				"retry_after_ms": retryAfter.Milliseconds(),
			},
		},
		Service:    service,
		RetryAfter: retryAfter,
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeInvalidInput,
			StatusCode: http.StatusBadRequest,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type NotFoundError struct {
	*AppError
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s %q not found", resource, key),
			Code:       CodeNotFound,
			StatusCode: http.StatusNotFound,
			Context: map[string]any{
				"resource": resource,
				"key":      key,
			},
		},
		Resource: resource,
		Key:      key,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// Code returns the code of the first Coded error in err's chain, or "" if there is none.
func Code(err error) string {
	var coded Coded
	if stderrors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

// StatusCode maps err to the HTTP status a handler should answer with. A deadline anywhere
// in the chain, including an upstream call timing out, maps to 504.
func StatusCode(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var coded Coded
	if stderrors.As(err, &coded) && coded.HTTPStatus() > 0 {
		return coded.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound
}

func IsValidation(err error) bool {
	return Code(err) == CodeInvalidInput
}

func IsUnavailable(err error) bool {
	return Code(err) == CodeUnavailable
}
