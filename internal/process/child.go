package process

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/giantswarm/tunnelkeeper/internal/sentinel"
)

// ErrEmptyCmdPath is returned by Start when Config.Path is empty.
const ErrEmptyCmdPath = sentinel.Error("command path must not be empty")

// Compile-time interface satisfaction check.
var _ Stoppable = (*Child)(nil)

// Config describes one child process launch.
type Config struct {
	// Name identifies the process in log records and errors (e.g. "cloudflared").
	Name string
	// Path is the executable, resolved through PATH when it has no separator.
	Path string
	// Args excludes the program name.
	Args []string
	// Logger is optional; slog.Default() is used when nil.
	Logger *slog.Logger
}

// Child is a started OS process whose stdout and stderr are exposed as
// readers. It is created by Start and must be discarded after Stop and
// Close; it is never restarted.
//
// Each stream gets its own os.Pipe rather than cmd.StdoutPipe so that
// reading to end of stream never races cmd.Wait closing the pipe. The read
// ends stay open until Close, so output written just before exit is still
// delivered.
//
// Stop and Close must not be called concurrently with each other. Stdout,
// Stderr, Exited and ExitErr are safe from any goroutine.
type Child struct {
	cmd      *exec.Cmd
	pid      int
	stdout   *os.File
	stderr   *os.File
	waitDone <-chan error    // receives cmd.Wait result; consumed by Stop
	exited   <-chan struct{} // closed after exitErr is set
	exitErr  error
	name     string
	log      *slog.Logger
}

// Start launches cfg.Path with cfg.Args. The working directory and
// environment are inherited from the supervisor.
//
// Panics if cfg.Name is empty, since every log line and error for the child
// is keyed by it.
func Start(cfg Config) (*Child, error) {
	if cfg.Name == "" {
		panic("tunnelkeeper: process name must not be empty")
	}
	if cfg.Path == "" {
		return nil, ErrEmptyCmdPath
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create %s stdout pipe: %w", cfg.Name, err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return nil, fmt.Errorf("create %s stderr pipe: %w", cfg.Name, err)
	}

	cmd := exec.Command(cfg.Path, cfg.Args...)
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	configureSysProcAttr(cmd)

	startErr := cmd.Start()
	// The child holds its own copies of the write ends. Closing ours means
	// the readers see EOF as soon as the child (and anything it forked)
	// lets go of them.
	closeAll(stdoutW, stderrW)
	if startErr != nil {
		closeAll(stdoutR, stderrR)
		return nil, fmt.Errorf("start %s process: %w", cfg.Name, startErr)
	}

	c := &Child{
		cmd:    cmd,
		pid:    cmd.Process.Pid,
		stdout: stdoutR,
		stderr: stderrR,
		name:   cfg.Name,
		log:    log.With("process", cfg.Name, "pid", cmd.Process.Pid),
	}

	// cmd.Wait must be called exactly once. The result is published twice:
	// through exitErr (read after exited is closed, by any goroutine) and
	// through the buffered done channel consumed by Stop.
	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		werr := cmd.Wait()
		c.exitErr = werr
		close(exited)
		done <- werr
	}()
	c.waitDone = done
	c.exited = exited

	c.log.Debug("process started")
	return c, nil
}

// Pid returns the OS process id.
func (c *Child) Pid() int {
	return c.pid
}

// Stdout returns the read end of the child's standard output.
func (c *Child) Stdout() io.Reader {
	return c.stdout
}

// Stderr returns the read end of the child's standard error.
func (c *Child) Stderr() io.Reader {
	return c.stderr
}

// Exited returns a channel that is closed once the process has terminated
// and been reaped. Any number of goroutines may select on it.
func (c *Child) Exited() <-chan struct{} {
	return c.exited
}

// ExitErr returns the cmd.Wait result. It is only meaningful after Exited
// is closed; before that it returns nil.
func (c *Child) ExitErr() error {
	select {
	case <-c.exited:
		return c.exitErr
	default:
		return nil
	}
}

// Logger returns the child-scoped logger.
func (c *Child) Logger() *slog.Logger {
	return c.log
}

// Stop terminates the process if it is still running, using the
// SIGTERM-then-SIGKILL sequence bounded by timeout. Stopping a process that
// has already exited returns nil. Safe to call more than once.
func (c *Child) Stop(timeout time.Duration) error {
	if c.cmd == nil {
		return nil
	}
	select {
	case <-c.exited:
		c.cmd = nil
		return nil
	default:
	}
	err := stopWithDone(c.cmd, c.waitDone, timeout, c.name)
	if err != nil {
		c.log.Warn("process stop failed; process may be orphaned", "error", err)
	}
	c.cmd = nil
	return err
}

// Close releases the read ends of both output streams. Readers blocked on
// them return with an error. Safe to call more than once.
func (c *Child) Close() {
	closeAll(c.stdout, c.stderr)
}

// closeAll closes every non-nil file, ignoring errors. Errors from closing a
// pipe end carry no actionable information here.
func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
