package tunnelkeeper

import (
	"io"
	"time"
)

// ConfigSnapshot holds a copy of the resolved supervisor configuration for
// test assertions. Exported only via export_test.go so that the _test
// package can verify option closures actually mutate the config without
// accessing internals.
type ConfigSnapshot struct {
	Name                string
	Path                string
	Args                []string
	TargetURL           string
	RestartDelay        time.Duration
	StopTimeout         time.Duration
	DrainTimeout        time.Duration
	TargetWait          time.Duration
	LaunchFailurePolicy LaunchFailurePolicy
	StderrMode          StderrMode
	Output              io.Writer
	Launcher            Launcher
	LockFile            string
}

// ApplyOptionsForTesting creates a default supervisorConfig, applies the
// given options, and returns a ConfigSnapshot of the resolved core config.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := cfg.toCoreConfig()

	return ConfigSnapshot{
		Name:                c.Command.Name,
		Path:                c.Command.Path,
		Args:                c.Command.Args,
		TargetURL:           c.TargetURL,
		RestartDelay:        c.RestartDelay,
		StopTimeout:         c.StopTimeout,
		DrainTimeout:        c.DrainTimeout,
		TargetWait:          c.TargetWait,
		LaunchFailurePolicy: c.LaunchFailurePolicy,
		StderrMode:          c.StderrMode,
		Output:              c.Output,
		Launcher:            c.Launcher,
		LockFile:            c.LockFile,
	}
}
