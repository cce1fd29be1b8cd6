package core

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// LaunchFailurePolicy decides what Run does when the child cannot be
// started at all (binary missing, permission denied).
type LaunchFailurePolicy int

const (
	// LaunchFailFatal makes Run return an error wrapping ErrLaunchFailed.
	// This is the default.
	LaunchFailFatal LaunchFailurePolicy = iota

	// LaunchFailRetry treats a failed launch like a child exit: the closed
	// notice is written and the launch is retried after the restart delay.
	LaunchFailRetry
)

// IsValid reports whether p is a recognized policy.
func (p LaunchFailurePolicy) IsValid() bool {
	switch p {
	case LaunchFailFatal, LaunchFailRetry:
		return true
	default:
		return false
	}
}

// String returns the flag spelling of the policy.
func (p LaunchFailurePolicy) String() string {
	switch p {
	case LaunchFailFatal:
		return "fatal"
	case LaunchFailRetry:
		return "retry"
	default:
		return fmt.Sprintf("LaunchFailurePolicy(%d)", int(p))
	}
}

// ParseLaunchFailurePolicy is the inverse of LaunchFailurePolicy.String.
func ParseLaunchFailurePolicy(s string) (LaunchFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fatal":
		return LaunchFailFatal, nil
	case "retry":
		return LaunchFailRetry, nil
	default:
		return 0, fmt.Errorf("invalid launch failure policy %q (allowed: fatal, retry)", s)
	}
}

// StderrMode decides what happens to the child's standard error. The stream
// is always drained; a child blocked on a full stderr pipe would stall.
type StderrMode int

const (
	// StderrDiscard reads and drops every stderr byte. This is the default.
	StderrDiscard StderrMode = iota

	// StderrMerge relays stderr lines to the same sink as stdout lines.
	// Lines from one stream stay in order; the interleaving between the two
	// streams follows arrival.
	StderrMerge

	// StderrLog forwards each stderr line to the diagnostic logger.
	StderrLog
)

// IsValid reports whether m is a recognized mode.
func (m StderrMode) IsValid() bool {
	switch m {
	case StderrDiscard, StderrMerge, StderrLog:
		return true
	default:
		return false
	}
}

// String returns the flag spelling of the mode.
func (m StderrMode) String() string {
	switch m {
	case StderrDiscard:
		return "discard"
	case StderrMerge:
		return "merge"
	case StderrLog:
		return "log"
	default:
		return fmt.Sprintf("StderrMode(%d)", int(m))
	}
}

// ParseStderrMode is the inverse of StderrMode.String.
func ParseStderrMode(s string) (StderrMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discard":
		return StderrDiscard, nil
	case "merge":
		return StderrMerge, nil
	case "log":
		return StderrLog, nil
	default:
		return 0, fmt.Errorf("invalid stderr mode %q (allowed: discard, merge, log)", s)
	}
}

// Command is the fixed invocation the supervisor keeps alive.
type Command struct {
	// Name labels the child in log records.
	Name string
	// Path is the executable, resolved through PATH.
	Path string
	// Args excludes the program name.
	Args []string
}

// Config holds the Supervisor settings.
//
// Concurrency contract: immutable after NewSupervisor.
type Config struct {
	Command Command

	// RestartDelay is the pause between an observed exit and the next
	// launch. It never grows.
	RestartDelay time.Duration

	// StopTimeout bounds the SIGTERM/SIGKILL sequence when Run is canceled
	// while a child is alive.
	StopTimeout time.Duration

	// DrainTimeout bounds how long Run waits, after the child has exited,
	// for its output streams to reach end of stream. A grandchild that
	// inherited the pipes would otherwise hold the relay open forever.
	DrainTimeout time.Duration

	// TargetURL is the local service the tunnel exposes. It is only used by
	// the readiness wait.
	TargetURL string

	// TargetWait, when positive, makes each cycle poll TargetURL until it
	// accepts TCP connections or TargetWait elapses. Zero disables the wait.
	TargetWait time.Duration

	LaunchFailurePolicy LaunchFailurePolicy
	StderrMode          StderrMode

	// Output receives the notices and the relayed lines.
	Output io.Writer

	// Launcher starts children. nil selects ExecLauncher.
	Launcher Launcher

	// LockFile, when set, is flocked for the lifetime of Run.
	LockFile string
}

// Validate checks every Config invariant and reports all violations at once
// through errors.Join.
func (c Config) Validate() error {
	var errs []error

	if c.Command.Name == "" {
		errs = append(errs, errors.New("command name must not be empty"))
	}
	if c.Command.Path == "" {
		errs = append(errs, errors.New("command path must not be empty"))
	}
	if c.RestartDelay <= 0 {
		errs = append(errs, fmt.Errorf("restart delay must be greater than 0, got %s", c.RestartDelay))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stop timeout must be greater than 0, got %s", c.StopTimeout))
	}
	if c.DrainTimeout <= 0 {
		errs = append(errs, fmt.Errorf("drain timeout must be greater than 0, got %s", c.DrainTimeout))
	}
	if c.TargetWait < 0 {
		errs = append(errs, fmt.Errorf("target wait must not be negative, got %s", c.TargetWait))
	}
	if c.TargetWait > 0 && c.TargetURL == "" {
		errs = append(errs, errors.New("target wait requires a target URL"))
	}
	if !c.LaunchFailurePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid launch failure policy: %v", c.LaunchFailurePolicy))
	}
	if !c.StderrMode.IsValid() {
		errs = append(errs, fmt.Errorf("invalid stderr mode: %v", c.StderrMode))
	}
	if c.Output == nil {
		errs = append(errs, errors.New("output writer must not be nil"))
	}

	return errors.Join(errs...)
}
