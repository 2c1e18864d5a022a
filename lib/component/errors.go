package component

import (
	"errors"
	"fmt"
)

// UserError is a failure caused by the configuration or the input data
// rather than by the component itself. The process exits with 1 for these
// and with 2 for anything else.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

func WrapUserError(err error, message string) *UserError {
	return &UserError{Message: message, Err: err}
}

const (
	ExitUserError        = 1
	ExitApplicationError = 2
)

// ExitCode maps an error returned by an action to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return ExitUserError
	}
	return ExitApplicationError
}
