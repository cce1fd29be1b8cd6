package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/giantswarm/tunnelkeeper/internal/process"
)

// Child is the handle to one running child process. A Supervisor owns
// exactly one Child at a time, from Launch until it has observed the exit
// and called Stop and Close; the handle is never reused.
type Child interface {
	process.Stoppable

	// Pid returns the OS process id, or a fake id in tests.
	Pid() int
	// Stdout and Stderr return readers that reach end of stream when the
	// child closes its side, or fail once Close has been called.
	Stdout() io.Reader
	Stderr() io.Reader
	// Exited is closed when the child has terminated. It is the
	// authoritative termination signal; end of stream on Stdout is not.
	Exited() <-chan struct{}
	// ExitErr returns the wait result once Exited is closed.
	ExitErr() error
}

// Launcher starts a Child for a Command.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) (Child, error)
}

// Compile-time interface satisfaction checks.
var (
	_ Launcher = ExecLauncher{}
	_ Child    = (*process.Child)(nil)
)

// ExecLauncher starts real OS processes through the process package.
type ExecLauncher struct {
	// Logger is optional; Logger() is used when nil.
	Logger *slog.Logger
}

// Launch starts cmd. The child inherits the supervisor's working directory
// and environment. A canceled ctx prevents the launch.
//
//nolint:ireturn // Returns Child so tests can substitute fakes.
func (l ExecLauncher) Launch(ctx context.Context, cmd Command) (Child, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := l.Logger
	if log == nil {
		log = Logger()
	}
	c, err := process.Start(process.Config{
		Name:   cmd.Name,
		Path:   cmd.Path,
		Args:   cmd.Args,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// stopChild stops and closes c, logging rather than returning a failure:
// callers are tearing down and have nothing better to do with it.
func stopChild(log *slog.Logger, c Child, timeout time.Duration) {
	if err := process.StopAndClose(c, timeout); err != nil {
		log.Warn("stop child failed", "pid", c.Pid(), "error", err)
	}
}
