package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitInvalid = 2
)

// ExitError carries the process exit code for Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// invalidArgs marks err as a usage or configuration problem.
func invalidArgs(err error) error {
	return &ExitError{Code: exitInvalid, Err: err}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return exitError
}
