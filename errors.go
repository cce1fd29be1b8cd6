package tunnelkeeper

import (
	"github.com/giantswarm/tunnelkeeper/internal/core"
	"github.com/giantswarm/tunnelkeeper/internal/process"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrLaunchFailed is returned by Run when the tunnel binary cannot be
	// started and the launch failure policy is LaunchFailFatal. The
	// underlying exec error is wrapped alongside it.
	ErrLaunchFailed = core.ErrLaunchFailed

	// ErrAlreadyRunning is returned by Run when another supervisor holds
	// the lock file configured with WithLockFile.
	ErrAlreadyRunning = core.ErrAlreadyRunning

	// ErrRunInProgress is returned by Run when the same Supervisor is
	// already running.
	ErrRunInProgress = core.ErrRunInProgress

	// ErrEmptyCmdPath is returned by ExecLauncher when the command has no
	// executable path.
	ErrEmptyCmdPath = process.ErrEmptyCmdPath
)
