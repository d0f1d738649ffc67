package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest signals a malformed request or an invalid parameter value.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized signals a missing or unknown api key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEndpointNotFound signals an unknown endpoint token.
	ErrEndpointNotFound = errors.New("endpoint not found")
	// ErrResourceNotFound signals a missing entity or content item.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrMethodNotAllowed signals an unsupported HTTP method for a route.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrTooManyRequests signals an exhausted client quota.
	ErrTooManyRequests = errors.New("too many requests")
	// ErrInternalServerError signals an unexpected failure.
	ErrInternalServerError = errors.New("internal server error")
	// ErrServiceUnavailable signals that the search engine could not be reached.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// MethodNotAllowedError wraps ErrMethodNotAllowed with the rejected method.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMethodNotAllowed.Error(), e.Method)
}

func (e *MethodNotAllowedError) Unwrap() error { return ErrMethodNotAllowed }

// NewMethodNotAllowed creates a method-not-allowed error.
func NewMethodNotAllowed(method string) error {
	return &MethodNotAllowedError{Method: method}
}
