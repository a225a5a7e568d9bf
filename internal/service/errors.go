package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStorage marks a failure reading or writing the persisted credential.
var ErrStorage = errors.New("credential storage failure")

// ErrInvalidInput is returned when required task fields are empty.
var ErrInvalidInput = errors.New("invalid input")

// RejectedError is returned when the server answers with a non-success status.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rejected (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("rejected (%d)", e.StatusCode)
}

// Unauthorized reports whether the rejection concerns the credential.
func (e *RejectedError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// TransportError is returned when the request never produced a server answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRejected reports whether err is (or wraps) a RejectedError.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUnauthorized reports whether err is a rejection of the bearer credential.
func IsUnauthorized(err error) bool {
	var re *RejectedError
	return errors.As(err, &re) && re.Unauthorized()
}
