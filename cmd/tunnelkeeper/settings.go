package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"

	"github.com/giantswarm/tunnelkeeper"
)

// Flag names double as viper keys. The environment variable for each is
// TUNNELKEEPER_ followed by the upper-cased name with dashes as underscores.
const (
	flagBinary          = "binary"
	flagURL             = "url"
	flagRestartDelay    = "restart-delay"
	flagStopTimeout     = "stop-timeout"
	flagDrainTimeout    = "drain-timeout"
	flagWaitForTarget   = "wait-for-target"
	flagOnLaunchFailure = "on-launch-failure"
	flagStderr          = "stderr"
	flagLockFile        = "lock-file"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
)

// settings is the resolved command line and environment configuration.
type settings struct {
	Binary        string
	TargetURL     string
	RestartDelay  time.Duration
	StopTimeout   time.Duration
	DrainTimeout  time.Duration
	TargetWait    time.Duration
	LaunchFailure tunnelkeeper.LaunchFailurePolicy
	StderrMode    tunnelkeeper.StderrMode
	LockFile      string
	LogLevel      string
	LogFormat     string
}

// loadSettings reads and validates every setting from v. All problems are
// reported together.
func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		Binary:       v.GetString(flagBinary),
		TargetURL:    v.GetString(flagURL),
		RestartDelay: v.GetDuration(flagRestartDelay),
		StopTimeout:  v.GetDuration(flagStopTimeout),
		DrainTimeout: v.GetDuration(flagDrainTimeout),
		TargetWait:   v.GetDuration(flagWaitForTarget),
		LockFile:     v.GetString(flagLockFile),
		LogLevel:     v.GetString(flagLogLevel),
		LogFormat:    v.GetString(flagLogFormat),
	}

	var errs []error
	if s.Binary == "" {
		errs = append(errs, fmt.Errorf("--%s must not be empty", flagBinary))
	}
	if s.TargetURL == "" {
		errs = append(errs, fmt.Errorf("--%s must not be empty", flagURL))
	}
	for name, d := range map[string]time.Duration{
		flagRestartDelay: s.RestartDelay,
		flagStopTimeout:  s.StopTimeout,
		flagDrainTimeout: s.DrainTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("--%s must be greater than 0, got %s", name, d))
		}
	}
	if s.TargetWait < 0 {
		errs = append(errs, fmt.Errorf("--%s must not be negative, got %s", flagWaitForTarget, s.TargetWait))
	}

	var err error
	if s.LaunchFailure, err = tunnelkeeper.ParseLaunchFailurePolicy(v.GetString(flagOnLaunchFailure)); err != nil {
		errs = append(errs, fmt.Errorf("--%s: %w", flagOnLaunchFailure, err))
	}
	if s.StderrMode, err = tunnelkeeper.ParseStderrMode(v.GetString(flagStderr)); err != nil {
		errs = append(errs, fmt.Errorf("--%s: %w", flagStderr, err))
	}

	return s, errors.Join(errs...)
}

// options converts validated settings into supervisor options.
func (s settings) options(out io.Writer) []tunnelkeeper.Option {
	opts := []tunnelkeeper.Option{
		tunnelkeeper.WithBinary(s.Binary),
		tunnelkeeper.WithTargetURL(s.TargetURL),
		tunnelkeeper.WithRestartDelay(s.RestartDelay),
		tunnelkeeper.WithStopTimeout(s.StopTimeout),
		tunnelkeeper.WithDrainTimeout(s.DrainTimeout),
		tunnelkeeper.WithTargetWait(s.TargetWait),
		tunnelkeeper.WithLaunchFailurePolicy(s.LaunchFailure),
		tunnelkeeper.WithStderrMode(s.StderrMode),
		tunnelkeeper.WithOutput(out),
	}
	if s.LockFile != "" {
		opts = append(opts, tunnelkeeper.WithLockFile(s.LockFile))
	}
	return opts
}
