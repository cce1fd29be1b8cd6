package tunnelkeeper

import (
	"fmt"
	"io"
	"slices"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive(name string, v time.Duration) {
	if v <= 0 {
		panic(fmt.Sprintf("tunnelkeeper: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("tunnelkeeper: %s must not be empty", name))
	}
}

// Option configures a Supervisor during construction via New.
// Each With* function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations, unknown enum values). Option values are normally constants or
// already-parsed flags, so an invalid value is a programmer error. The
// pattern mirrors [regexp.MustCompile].
type Option func(*supervisorConfig)

// WithBinary sets the path (or PATH-resolved name) of the tunnel binary.
//
// Default: "cloudflared".
//
// Panics if binPath is empty.
func WithBinary(binPath string) Option {
	requireNonEmpty("binary path", binPath)
	return func(c *supervisorConfig) {
		c.binary = binPath
	}
}

// WithArgs replaces the tunnel arguments. Without it the arguments are
// TunnelArgs(targetURL). WithArgs() with no arguments runs the binary bare.
func WithArgs(args ...string) Option {
	clone := slices.Clone(args)
	if clone == nil {
		clone = []string{}
	}
	return func(c *supervisorConfig) {
		c.args = clone
	}
}

// WithTargetURL sets the local service the tunnel exposes. It feeds the
// default arguments and the readiness wait.
//
// Default: "http://localhost:3000".
//
// Panics if url is empty.
func WithTargetURL(url string) Option {
	requireNonEmpty("target URL", url)
	return func(c *supervisorConfig) {
		c.TargetURL = url
	}
}

// WithRestartDelay sets the fixed pause between an exit and the next
// launch. The restart notice reports this value in seconds.
//
// Default: 5 seconds.
//
// Panics if d <= 0.
func WithRestartDelay(d time.Duration) Option {
	requirePositive("restart delay", d)
	return func(c *supervisorConfig) {
		c.RestartDelay = d
	}
}

// WithStopTimeout bounds how long stopping the live tunnel may take when
// Run is canceled. SIGKILL follows SIGTERM within this window.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *supervisorConfig) {
		c.StopTimeout = d
	}
}

// WithDrainTimeout bounds how long Run keeps reading output after the tunnel
// process has exited. Output held open longer, for example by a process the
// tunnel spawned, is cut off.
//
// Default: 2 seconds.
//
// Panics if d <= 0.
func WithDrainTimeout(d time.Duration) Option {
	requirePositive("drain timeout", d)
	return func(c *supervisorConfig) {
		c.DrainTimeout = d
	}
}

// WithTargetWait makes every launch wait, for at most d, until the target
// URL accepts TCP connections. The launch goes ahead when d runs out.
//
// Default: 0 (no wait).
//
// Panics if d < 0.
func WithTargetWait(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Sprintf("tunnelkeeper: target wait must not be negative, got %v", d))
	}
	return func(c *supervisorConfig) {
		c.TargetWait = d
	}
}

// WithLaunchFailurePolicy sets what Run does when the binary cannot be
// started.
//
// Default: LaunchFailFatal.
//
// Panics if p is not a recognized policy.
func WithLaunchFailurePolicy(p LaunchFailurePolicy) Option {
	if !p.IsValid() {
		panic(fmt.Sprintf("tunnelkeeper: invalid launch failure policy: %v", p))
	}
	return func(c *supervisorConfig) {
		c.LaunchFailurePolicy = p
	}
}

// WithStderrMode sets what happens to the tunnel's standard error.
//
// Default: StderrDiscard.
//
// Panics if m is not a recognized mode.
func WithStderrMode(m StderrMode) Option {
	if !m.IsValid() {
		panic(fmt.Sprintf("tunnelkeeper: invalid stderr mode: %v", m))
	}
	return func(c *supervisorConfig) {
		c.StderrMode = m
	}
}

// WithOutput sets the writer that receives the notices and relayed lines.
//
// Default: os.Stdout.
//
// Panics if w is nil.
func WithOutput(w io.Writer) Option {
	if w == nil {
		panic("tunnelkeeper: output writer must not be nil")
	}
	return func(c *supervisorConfig) {
		c.Output = w
	}
}

// WithLauncher replaces the process launcher.
//
// Panics if l is nil.
func WithLauncher(l Launcher) Option {
	if l == nil {
		panic("tunnelkeeper: launcher must not be nil")
	}
	return func(c *supervisorConfig) {
		c.Launcher = l
	}
}

// WithLockFile makes Run hold an exclusive lock on path for its whole
// lifetime, so that two supervisors on one host never run two tunnels.
// Missing parent directories are created.
//
// Panics if path is empty.
func WithLockFile(path string) Option {
	requireNonEmpty("lock file path", path)
	return func(c *supervisorConfig) {
		c.LockFile = path
	}
}
