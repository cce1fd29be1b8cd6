package tunnelkeeper

import "github.com/giantswarm/tunnelkeeper/internal/core"

// LaunchFailurePolicy decides what Run does when the tunnel binary cannot be
// started at all.
//
// LaunchFailurePolicy is a type alias (not a named type) so that the
// underlying [core.LaunchFailurePolicy] methods are part of the public API:
//
//   - IsValid reports whether the value is a recognized policy.
//   - String returns the policy name (implements [fmt.Stringer]).
//
// Audit: new methods added to core.LaunchFailurePolicy automatically become
// part of the public API through this alias.
type LaunchFailurePolicy = core.LaunchFailurePolicy

const (
	// LaunchFailFatal makes Run return an error wrapping ErrLaunchFailed.
	// This is the default.
	LaunchFailFatal = core.LaunchFailFatal

	// LaunchFailRetry treats a failed launch like an exit: the restart
	// notice is written and the launch is retried after the restart delay.
	LaunchFailRetry = core.LaunchFailRetry
)

// ParseLaunchFailurePolicy parses "fatal" or "retry", ignoring case.
func ParseLaunchFailurePolicy(s string) (LaunchFailurePolicy, error) {
	return core.ParseLaunchFailurePolicy(s)
}

// StderrMode decides what happens to the tunnel's standard error. The stream
// is always drained. Like LaunchFailurePolicy, it is an alias that exposes
// IsValid and String.
type StderrMode = core.StderrMode

const (
	// StderrDiscard reads and drops stderr. This is the default.
	StderrDiscard = core.StderrDiscard

	// StderrMerge relays stderr lines to the same output as stdout lines.
	StderrMerge = core.StderrMerge

	// StderrLog forwards each stderr line to the diagnostic logger.
	StderrLog = core.StderrLog
)

// ParseStderrMode parses "discard", "merge" or "log", ignoring case.
func ParseStderrMode(s string) (StderrMode, error) {
	return core.ParseStderrMode(s)
}

// State is the supervisor's position in its launch/restart cycle.
type State = core.State

const (
	// StateIdle means Run is not active.
	StateIdle = core.StateIdle

	// StateRunning covers launching and the whole life of a tunnel process.
	StateRunning = core.StateRunning

	// StateRestarting covers the fixed delay after an exit.
	StateRestarting = core.StateRestarting
)

// Stats counts supervisor events since New.
type Stats = core.Stats
