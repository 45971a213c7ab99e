package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes a transport failure
type ErrorType string

const (
	// ErrTypeNetwork indicates the backend could not be reached
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeTimeout indicates the request exceeded its deadline
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeStatus indicates a non-2xx response
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates the body was not valid JSON for the expected shape
	ErrTypeDecode ErrorType = "decode"

	// ErrTypeInvalidResponse indicates a decoded body that failed validation
	ErrTypeInvalidResponse ErrorType = "invalid_response"

	// ErrTypeCanceled indicates the caller canceled the request
	ErrTypeCanceled ErrorType = "canceled"

	// ErrTypeInternal indicates a client-side failure building the request
	ErrTypeInternal ErrorType = "internal"
)

// TransportError is returned for every failure that is not a
// backend-reported analysis failure. Backend failures (success=false) are
// data and never surface as errors.
type TransportError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Endpoint is the API path that was called
	Endpoint string `json:"endpoint"`

	// Message provides a human-readable description
	Message string `json:"message"`

	// StatusCode for HTTP status failures
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *TransportError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is matches another TransportError of the same type
func (e *TransportError) Is(target error) bool {
	if te, ok := target.(*TransportError); ok {
		return e.Type == te.Type
	}
	return false
}

func newTransportError(errType ErrorType, endpoint, message string, cause error) *TransportError {
	return &TransportError{
		Type:     errType,
		Endpoint: endpoint,
		Message:  message,
		Cause:    cause,
	}
}

// classifyRequestError maps an http.Client.Do failure onto a transport error type
func classifyRequestError(ctx context.Context, endpoint string, err error) *TransportError {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return newTransportError(ErrTypeCanceled, endpoint, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return newTransportError(ErrTypeTimeout, endpoint, "request timed out", err)
	default:
		return newTransportError(ErrTypeNetwork, endpoint, "request failed", err)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// IsTransportError reports whether err is (or wraps) a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsCanceled reports whether err is a transport error caused by cancellation
func IsCanceled(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type == ErrTypeCanceled
	}
	return errors.Is(err, context.Canceled)
}

// ErrorTypeOf returns the transport error type, or "" for other errors
func ErrorTypeOf(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}
	return ""
}
