// Package errors defines the service error taxonomy shared by the storage,
// service and HTTP layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a service failure.
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeStorage      Code = "STORAGE_ERROR"
)

// ServiceError carries a classified failure across layer boundaries. The
// HTTP layer maps it to a status code; everything below it stays transport
// agnostic.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	cause      error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.cause }

// Is treats two service errors with the same code as equivalent, so callers
// can match with errors.Is against the sentinel constructors.
func (e *ServiceError) Is(target error) bool {
	var other *ServiceError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithDetails attaches a key/value pair and returns the error for chaining.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Unauthorized signals a missing, malformed or expired credential.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "unauthorized"
	}
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken wraps a token that failed signature or structural checks.
func InvalidToken(cause error) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: "invalid token", HTTPStatus: http.StatusUnauthorized, cause: cause}
}

// ExpiredToken marks a structurally valid token past its expiry. The HTTP
// response is identical to InvalidToken; the distinction is for logs and
// tests only.
func ExpiredToken(cause error) *ServiceError {
	return &ServiceError{
		Code:       CodeUnauthorized,
		Message:    "token expired",
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]interface{}{"reason": "expired"},
		cause:      cause,
	}
}

// InvalidInput signals a payload that failed schema validation. Field-level
// errors go under Details["fields"].
func InvalidInput(message string) *ServiceError {
	if message == "" {
		message = "invalid input"
	}
	return &ServiceError{Code: CodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

// InvalidFields builds an InvalidInput error from per-field messages.
func InvalidFields(fields map[string]string) *ServiceError {
	e := InvalidInput("validation failed")
	detail := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		detail[k] = v
	}
	return e.WithDetails("fields", detail)
}

// NotFound covers both absent rows and rows owned by another user; the two
// are deliberately indistinguishable to the caller.
func NotFound(resource string) *ServiceError {
	message := "not found"
	if resource != "" {
		message = resource + " not found"
	}
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Storage wraps an unexpected persistence failure. The cause is logged
// server-side and never serialized to the client.
func Storage(cause error) *ServiceError {
	return &ServiceError{Code: CodeStorage, Message: "storage error", HTTPStatus: http.StatusInternalServerError, cause: cause}
}

// GetServiceError extracts a *ServiceError from err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// IsNotFound reports whether err classifies as NOT_FOUND.
func IsNotFound(err error) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.Code == CodeNotFound
}

// IsUnauthorized reports whether err classifies as UNAUTHORIZED.
func IsUnauthorized(err error) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.Code == CodeUnauthorized
}

// IsInvalidInput reports whether err classifies as INVALID_INPUT.
func IsInvalidInput(err error) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.Code == CodeInvalidInput
}
