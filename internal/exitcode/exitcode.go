// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"todo/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, out-of-range task number, invalid input).
	UserError = 1

	// AuthError indicates a missing or rejected credential.
	AuthError = 2

	// BackendError indicates a server, network or storage failure.
	BackendError = 3
)

// FromError maps a failed operation to an exit code.
// A nil error is Success.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case service.IsUnauthorized(err):
		return AuthError
	case errors.Is(err, service.ErrInvalidInput):
		return UserError
	default:
		return BackendError
	}
}
