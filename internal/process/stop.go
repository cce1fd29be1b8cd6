package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// DefaultStopTimeout bounds the whole stop sequence when the caller has no
// configured value.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is how long a process gets after SIGTERM before SIGKILL.
// It is capped at the caller's timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout bounds the wait on the done channel once SIGKILL has been
// sent or the process is known to be gone. cmd.Wait returns almost
// immediately in both cases; the bound only matters if it hangs on stuck I/O.
const killDrainTimeout = 10 * time.Second

// drainDone receives from done, giving up after timeout. It returns true and
// the cmd.Wait error on delivery, false and nil on timeout.
func drainDone(done <-chan error, timeout time.Duration) (bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return true, err
	case <-t.C:
		return false, nil
	}
}

// stopWithDone sends SIGTERM, escalates to SIGKILL after the grace period,
// and waits for the existing cmd.Wait goroutine to report through done. It
// never calls cmd.Wait itself.
//
// The worst-case blocking time is timeout + killDrainTimeout.
func stopWithDone(cmd *exec.Cmd, done <-chan error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if done == nil {
		return fmt.Errorf("%s: done channel must not be nil", name)
	}

	if err := signalProcess(cmd.Process, syscall.SIGTERM); err != nil {
		// Already exited; collect the status.
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr, name)
	}

	// grace <= timeout so SIGKILL always lands while totalTimer is running.
	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		// Fails with os.ErrProcessDone once reaped.
		_ = signalProcess(cmd.Process, syscall.SIGKILL)
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case err := <-done:
		return expectSignalExit(err, name)
	case <-totalTimer.C:
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr, name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit interprets a cmd.Wait error after the supervisor asked
// the process to stop. Deaths by SIGTERM or SIGKILL are the expected outcome
// and map to nil.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	if st := DescribeExit(err); st.Signal == syscall.SIGTERM.String() || st.Signal == syscall.SIGKILL.String() {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// ExitStatus summarizes how a child ended, for log records.
type ExitStatus struct {
	// Code is the exit code, or -1 when the process was killed by a signal
	// or the status is unknown.
	Code int
	// Signal names the terminating signal, empty when the process exited on
	// its own.
	Signal string
}

// Attrs returns the status as slog key/value pairs.
func (s ExitStatus) Attrs() []any {
	if s.Signal != "" {
		return []any{"exit_code", s.Code, "signal", s.Signal}
	}
	return []any{"exit_code", s.Code}
}

// DescribeExit classifies a cmd.Wait result. A nil error is a clean exit
// with code 0. Errors that are not *exec.ExitError yield code -1.
func DescribeExit(err error) ExitStatus {
	if err == nil {
		return ExitStatus{Code: 0}
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ExitStatus{Code: -1}
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return ExitStatus{Code: -1, Signal: status.Signal().String()}
	}
	return ExitStatus{Code: exitErr.ExitCode()}
}
