package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/giantswarm/tunnelkeeper"
	"github.com/giantswarm/tunnelkeeper/internal/observability"
)

const envPrefix = "TUNNELKEEPER"

// newRootCmd builds the tunnelkeeper command. Relay output goes to stdout;
// diagnostics and errors go to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var v *viper.Viper

	rootCmd := &cobra.Command{
		Use:   "tunnelkeeper",
		Short: "Keep a Cloudflare quick tunnel running",
		Long: `tunnelkeeper runs "cloudflared tunnel --url http://localhost:3000",
prints everything the tunnel prints, and starts it again five seconds after
it exits, until interrupted.

Every flag can also be set through the environment, e.g.
TUNNELKEEPER_RESTART_DELAY=10s.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError("unexpected arguments", err)
			}
			return nil
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return usageError("invalid configuration", err)
			}

			logger, err := observability.NewLogger(observability.Config{
				Level:   s.LogLevel,
				Format:  s.LogFormat,
				Writer:  stderr,
				Version: version,
			})
			if err != nil {
				return usageError("invalid logging configuration", err)
			}
			slog.SetDefault(logger)
			tunnelkeeper.SetLogger(logger.With("component", "tunnelkeeper"))

			logger.Debug("starting supervisor",
				"binary", s.Binary,
				"url", s.TargetURL,
				"restart_delay", s.RestartDelay,
				"on_launch_failure", s.LaunchFailure,
				"stderr", s.StderrMode)

			return tunnelkeeper.New(s.options(stdout)...).Run(cmd.Context())
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("invalid flag", err)
	})

	addFlags(rootCmd.Flags())
	v = newViper(rootCmd.Flags())

	return rootCmd
}

// addFlags registers every supervisor flag on f with its default.
func addFlags(f *pflag.FlagSet) {
	f.String(flagBinary, tunnelkeeper.DefaultBinary, "Tunnel binary, resolved through PATH")
	f.String(flagURL, tunnelkeeper.DefaultTargetURL, "Local service URL passed to the tunnel")
	f.Duration(flagRestartDelay, tunnelkeeper.DefaultRestartDelay, "Pause between a tunnel exit and the next start")
	f.Duration(flagStopTimeout, tunnelkeeper.DefaultStopTimeout, "Time allowed for the tunnel to stop on shutdown")
	f.Duration(flagDrainTimeout, tunnelkeeper.DefaultDrainTimeout, "Time allowed for tunnel output to end after it exits")
	f.Duration(flagWaitForTarget, 0, "Wait up to this long for the local service before each start (0 disables)")
	f.String(flagOnLaunchFailure, tunnelkeeper.DefaultLaunchFailurePolicy.String(), "What to do when the binary cannot start (fatal|retry)")
	f.String(flagStderr, tunnelkeeper.DefaultStderrMode.String(), "Tunnel stderr handling (discard|merge|log)")
	f.String(flagLockFile, "", "Lock file that keeps a second supervisor from starting")
	f.String(flagLogLevel, "info", "Diagnostic log level (debug|info|warn|error)")
	f.String(flagLogFormat, "text", "Diagnostic log format (text|json)")
}

// newViper returns a viper instance bound to f, with TUNNELKEEPER_*
// environment variables layered over the flag defaults. Explicit flags win
// over the environment.
func newViper(f *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
	return v
}
