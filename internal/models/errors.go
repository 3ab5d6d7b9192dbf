package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every malformed login info error.
	ErrValidation = errors.New("validation error")
	// ErrDriverNotFound is returned when no driver is registered under a name.
	ErrDriverNotFound = errors.New("driver not found")
)

// DSError is the error reported by a data repository or its driver. The
// orchestrator treats it as an expected, domain level failure.
type DSError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func NewDSError(format string, args ...any) *DSError {
	return &DSError{Message: fmt.Sprintf(format, args...)}
}

func (e *DSError) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// IsClientError is true for 4xx statuses, i.e. the request was rejected.
func (e *DSError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError is true for 5xx statuses.
func (e *DSError) IsServerError() bool {
	return e.Status >= 500
}

// IsDSError reports whether err is, or wraps, a *DSError.
func IsDSError(err error) bool {
	var dsErr *DSError
	return errors.As(err, &dsErr)
}
