package tunnelkeeper

import (
	"context"

	"github.com/giantswarm/tunnelkeeper/internal/core"
)

// Supervisor keeps one tunnel process alive.
//
// A Supervisor drives at most one Run at a time; a second concurrent Run
// returns ErrRunInProgress. Run may be called again after it returns.
type Supervisor interface {
	// Run launches the tunnel, relays its output, and relaunches it
	// RestartDelay after every exit until ctx is canceled. On cancellation
	// it stops the live tunnel and returns nil.
	//
	// Run returns early with an error wrapping ErrLaunchFailed when the
	// binary cannot be started under LaunchFailFatal, and with
	// ErrAlreadyRunning when the lock file is held elsewhere.
	Run(ctx context.Context) error

	// State returns the current cycle state. Safe to call concurrently
	// with Run.
	State() State

	// Stats returns a snapshot of the event counters. Safe to call
	// concurrently with Run.
	Stats() Stats
}

// Launcher starts a tunnel process. The default starts a real OS process;
// WithLauncher substitutes another implementation, typically in tests.
type Launcher = core.Launcher

// Child is the handle to one running tunnel process, as returned by a
// Launcher. See [core.Child] for the contract each method must honor.
type Child = core.Child

// Command is the invocation passed to a Launcher.
type Command = core.Command
