package tunnelkeeper

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/giantswarm/tunnelkeeper/internal/core"
)

// supervisorConfig holds configuration for a Supervisor. This unexported
// type wraps core.Config via embedding, keeping internal/core types out of
// the public API signature while avoiding field-by-field duplication.
//
// The command is kept apart as binary and args and assembled by
// toCoreConfig, so that WithTargetURL keeps working with the default
// arguments.
type supervisorConfig struct {
	core.Config

	binary string
	// args replaces TunnelArgs(TargetURL) when non-nil.
	args []string
}

// defaultSupervisorConfig returns a supervisorConfig populated with all
// default values. Both New and test helpers use this to avoid duplicating
// the default field assignments.
func defaultSupervisorConfig() supervisorConfig {
	return supervisorConfig{
		Config: core.Config{
			RestartDelay:        DefaultRestartDelay,
			StopTimeout:         DefaultStopTimeout,
			DrainTimeout:        DefaultDrainTimeout,
			TargetURL:           DefaultTargetURL,
			LaunchFailurePolicy: DefaultLaunchFailurePolicy,
			StderrMode:          DefaultStderrMode,
			Output:              os.Stdout,
		},
		binary: DefaultBinary,
	}
}

// toCoreConfig returns the embedded core.Config with the command filled in.
func (c supervisorConfig) toCoreConfig() core.Config {
	cfg := c.Config
	args := c.args
	if args == nil {
		args = TunnelArgs(cfg.TargetURL)
	}
	cfg.Command = core.Command{
		Name: filepath.Base(c.binary),
		Path: c.binary,
		Args: slices.Clone(args),
	}
	return cfg
}
