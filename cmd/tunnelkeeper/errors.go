package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/giantswarm/tunnelkeeper"
)

// Exit codes.
const (
	ExitSuccess       = 0  // Clean shutdown after SIGINT/SIGTERM
	ExitGeneral       = 1  // General error
	ExitLaunchFailure = 2  // Tunnel binary could not be started
	ExitLocked        = 3  // Another supervisor holds the lock file
	ExitUsage         = 64 // Command line usage error (BSD convention)
)

// cliError carries a user-facing message and the exit code for it.
type cliError struct {
	Message string
	Hint    string
	Cause   error
	Code    int
}

func (e *cliError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *cliError) Unwrap() error {
	return e.Cause
}

func usageError(message string, cause error) *cliError {
	return &cliError{
		Message: message,
		Cause:   cause,
		Hint:    "Run 'tunnelkeeper --help' for usage",
		Code:    ExitUsage,
	}
}

// handleError prints err to w and returns the matching exit code.
func handleError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	code := exitCode(err)
	fmt.Fprintf(w, "Error: %v\n", err)

	var cliErr *cliError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintln(w, cliErr.Hint)
	}
	return code
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	var cliErr *cliError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, tunnelkeeper.ErrLaunchFailed):
		return ExitLaunchFailure
	case errors.Is(err, tunnelkeeper.ErrAlreadyRunning):
		return ExitLocked
	default:
		return ExitGeneral
	}
}
