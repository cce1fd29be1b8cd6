package tunnelkeeper

import "time"

// Default configuration values for New.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them.
const (
	// DefaultBinary is the binary name used to locate cloudflared in PATH.
	DefaultBinary = "cloudflared"

	// DefaultTargetURL is the local service the tunnel exposes.
	DefaultTargetURL = "http://localhost:3000"

	// DefaultRestartDelay is the fixed pause between a tunnel exit and the
	// next launch.
	DefaultRestartDelay = 5 * time.Second

	// DefaultStopTimeout bounds the SIGTERM/SIGKILL sequence used to stop
	// the live tunnel when Run is canceled.
	DefaultStopTimeout = 10 * time.Second

	// DefaultDrainTimeout bounds how long Run waits for the tunnel's output
	// to end after the process itself has exited.
	DefaultDrainTimeout = 2 * time.Second

	// DefaultLaunchFailurePolicy makes a tunnel that cannot be started a
	// fatal error.
	DefaultLaunchFailurePolicy = LaunchFailFatal

	// DefaultStderrMode drains and drops the tunnel's standard error.
	DefaultStderrMode = StderrDiscard
)

// TunnelArgs returns the cloudflared arguments for a quick tunnel to
// targetURL.
func TunnelArgs(targetURL string) []string {
	return []string{"tunnel", "--url", targetURL}
}
