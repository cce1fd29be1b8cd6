package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/tunnelkeeper/internal/lock"
	"github.com/giantswarm/tunnelkeeper/internal/netutil"
	"github.com/giantswarm/tunnelkeeper/internal/observability"
	"github.com/giantswarm/tunnelkeeper/internal/process"
	"github.com/giantswarm/tunnelkeeper/internal/sentinel"
)

// StartNotice is written to the output before every launch.
const StartNotice = "Starting Cloudflare Tunnel..."

// ErrLaunchFailed wraps the error from a failed launch when the policy is
// LaunchFailFatal.
const ErrLaunchFailed = sentinel.Error("tunnel launch failed")

// ErrAlreadyRunning is returned by Run when another supervisor holds the
// configured lock file.
const ErrAlreadyRunning = sentinel.Error("another supervisor is already running")

// ErrRunInProgress is returned by Run when the same Supervisor is already
// running. One Supervisor never drives two children.
const ErrRunInProgress = sentinel.Error("supervisor run already in progress")

const (
	// targetPollInterval is the gap between TCP probes of the target.
	targetPollInterval = 250 * time.Millisecond
	// targetDialTimeout bounds one probe. Refused connections return at
	// once; this only matters for a black-holed address.
	targetDialTimeout = time.Second
)

// State is the supervisor's position in its two-state cycle. There is no
// terminal state: Run only leaves the cycle through cancellation or a fatal
// launch failure, after which the state reads StateIdle.
type State uint32

const (
	StateIdle       State = iota // Run not active
	StateRunning                 // launching, or a child is alive
	StateRestarting              // child gone, waiting out the restart delay
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRestarting:
		return "restarting"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Stats counts supervisor events since construction.
type Stats struct {
	Launches       uint64 // children successfully started
	Exits          uint64 // child terminations observed
	LaunchFailures uint64 // launches that returned an error
}

// Supervisor keeps one child process alive: it launches it, relays its
// output, and relaunches it a fixed delay after every exit.
//
// Run drives the whole cycle from a single goroutine; the only other
// goroutines are the per-child stream readers. State and Stats may be read
// concurrently with Run.
type Supervisor struct {
	cfg      Config
	launcher Launcher
	out      *lineSink
	log      *slog.Logger

	running        atomic.Bool
	state          atomic.Uint32
	launches       atomic.Uint64
	exits          atomic.Uint64
	launchFailures atomic.Uint64
}

// NewSupervisor creates a Supervisor. It performs no I/O.
//
// Panics if cfg fails Validate; configuration comes from option
// constructors that already reject bad values, so a failure here is a
// programming error.
func NewSupervisor(cfg Config) *Supervisor {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("tunnelkeeper: invalid supervisor config: %v", err))
	}
	log := Logger().With("process", cfg.Command.Name)
	launcher := cfg.Launcher
	if launcher == nil {
		launcher = ExecLauncher{Logger: Logger()}
	}
	return &Supervisor{
		cfg:      cfg,
		launcher: launcher,
		out:      newLineSink(cfg.Output),
		log:      log,
	}
}

// State returns the current cycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the event counters.
func (s *Supervisor) Stats() Stats {
	return Stats{
		Launches:       s.launches.Load(),
		Exits:          s.exits.Load(),
		LaunchFailures: s.launchFailures.Load(),
	}
}

func (s *Supervisor) setState(st State) {
	s.state.Store(uint32(st))
}

// Run keeps the child alive until ctx is canceled, then stops the live
// child and returns nil. It returns early only with ErrRunInProgress,
// ErrAlreadyRunning, a lock error, or (under LaunchFailFatal) an error
// wrapping ErrLaunchFailed.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer s.running.Store(false)
	defer s.setState(StateIdle)

	if s.cfg.LockFile != "" {
		fl, err := lock.TryAcquire(s.cfg.LockFile)
		if err != nil {
			if errors.Is(err, lock.ErrLocked) {
				return fmt.Errorf("%w: %w", ErrAlreadyRunning, err)
			}
			return err
		}
		defer lock.Release(s.log, fl)
	}

	for {
		s.setState(StateRunning)
		if err := s.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		s.setState(StateRestarting)
		if err := s.pause(ctx); err != nil {
			break
		}
	}

	s.log.Info("supervisor stopped", "reason", context.Cause(ctx))
	return nil
}

// runOnce announces and launches one child and supervises it until it
// exits. It returns nil when the cycle should continue with a restart.
func (s *Supervisor) runOnce(ctx context.Context) error {
	s.writeNotice(StartNotice)
	s.waitForTarget(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	child, err := s.launcher.Launch(ctx, s.cfg.Command)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.launchFailures.Add(1)
		if s.cfg.LaunchFailurePolicy == LaunchFailRetry {
			s.log.Error("launch failed; retrying after restart delay",
				"command", s.cfg.Command.Path, "delay", s.cfg.RestartDelay, "error", err)
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, s.cfg.Command.Path, err)
	}
	s.launches.Add(1)

	return s.supervise(ctx, child)
}

// supervise relays child's output until the child exits or ctx is
// canceled, then discards the handle. Termination is taken from
// child.Exited, never from the streams closing.
func (s *Supervisor) supervise(ctx context.Context, child Child) error {
	log := s.log.With("pid", child.Pid())
	log.Info("tunnel started",
		"command", s.cfg.Command.Path, "args", observability.RedactArgs(s.cfg.Command.Args))

	var g errgroup.Group
	g.Go(func() error {
		return relayLines(child.Stdout(), s.lineEmitter(log, "stdout"))
	})
	g.Go(func() error {
		return s.drainStderr(log, child.Stderr())
	})
	relayed := make(chan error, 1)
	go func() {
		relayed <- g.Wait()
	}()

	select {
	case <-child.Exited():
	case <-ctx.Done():
		log.Info("stopping tunnel", "reason", context.Cause(ctx))
		stopChild(log, child, s.cfg.StopTimeout)
		<-relayed
		return ctx.Err()
	}

	drained := true
	drainTimer := time.NewTimer(s.cfg.DrainTimeout)
	select {
	case err := <-relayed:
		if err != nil {
			log.Warn("output relay failed", "error", err)
		}
	case <-drainTimer.C:
		drained = false
		log.Warn("output still open after exit; closing it", "drain_timeout", s.cfg.DrainTimeout)
	}
	drainTimer.Stop()

	stopChild(log, child, s.cfg.StopTimeout)
	if !drained {
		<-relayed
	}

	s.exits.Add(1)
	log.Info("tunnel exited", process.DescribeExit(child.ExitErr()).Attrs()...)
	return nil
}

// pause writes the closed notice and waits out the restart delay. Only
// ctx cancellation cuts it short.
func (s *Supervisor) pause(ctx context.Context) error {
	s.writeNotice(closedNotice(s.cfg.RestartDelay))

	t := time.NewTimer(s.cfg.RestartDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// closedNotice renders the restart notice for delay, e.g.
// "Tunnel closed! Restarting in 5 seconds...".
func closedNotice(delay time.Duration) string {
	secs := strconv.FormatFloat(delay.Seconds(), 'f', -1, 64)
	return "Tunnel closed! Restarting in " + secs + " seconds..."
}

// writeNotice writes a supervisor notice. A broken output is logged, not
// fatal: the tunnel matters more than the console.
func (s *Supervisor) writeNotice(line string) {
	if err := s.out.WriteLine(line); err != nil {
		s.log.Warn("write notice failed", "error", err)
	}
}

// lineEmitter returns an emit function for relayLines that writes to the
// output sink. After the first write failure it keeps consuming lines
// without writing so the child never blocks on a full pipe.
func (s *Supervisor) lineEmitter(log *slog.Logger, stream string) func(string) error {
	failed := false
	return func(line string) error {
		if failed {
			return nil
		}
		if err := s.out.WriteLine(line); err != nil {
			failed = true
			log.Warn("relay write failed; discarding further output", "stream", stream, "error", err)
		}
		return nil
	}
}

// drainStderr consumes r according to the configured StderrMode.
func (s *Supervisor) drainStderr(log *slog.Logger, r io.Reader) error {
	switch s.cfg.StderrMode {
	case StderrMerge:
		return relayLines(r, s.lineEmitter(log, "stderr"))
	case StderrLog:
		return relayLines(r, func(line string) error {
			log.Info("tunnel stderr", "line", line)
			return nil
		})
	default:
		if _, err := io.Copy(io.Discard, r); err != nil && !isClosedStream(err) {
			return err
		}
		return nil
	}
}

// waitForTarget blocks until the target URL accepts TCP connections, the
// TargetWait budget runs out, or ctx is canceled. Failing to reach the
// target is logged; the launch goes ahead regardless, since the tunnel
// client copes with an origin that comes up later.
func (s *Supervisor) waitForTarget(ctx context.Context) {
	if s.cfg.TargetWait <= 0 {
		return
	}
	addr, err := netutil.DialAddress(s.cfg.TargetURL)
	if err != nil {
		s.log.Warn("cannot resolve target address; launching without waiting", "url", s.cfg.TargetURL, "error", err)
		return
	}

	err = netutil.WaitForTCP(ctx, netutil.WaitConfig{
		Addr:        addr,
		Interval:    targetPollInterval,
		Timeout:     s.cfg.TargetWait,
		DialTimeout: targetDialTimeout,
		Logger:      s.log,
	})
	if err != nil && ctx.Err() == nil {
		s.log.Warn("target not ready; launching anyway", "addr", addr, "error", err)
	}
}
