package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testDelay is the restart delay used by supervisor tests in place of the
// production 5 seconds.
const testDelay = 50 * time.Millisecond

// errTerminated stands in for the wait error of a signaled child.
var errTerminated = errors.New("signal: terminated")

// syncBuffer is a goroutine-safe output sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Lines returns the complete lines written so far.
func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimSuffix(b.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// script drives one fake child. It runs on its own goroutine.
type script func(c *fakeChild)

// emitAndExit writes lines to stdout, closes both streams, and exits cleanly.
func emitAndExit(lines ...string) script {
	return func(c *fakeChild) {
		c.writeLines(lines...)
		c.closeOutput()
		c.exit(nil)
	}
}

// emitAndCrash is emitAndExit with a failing exit status.
func emitAndCrash(lines ...string) script {
	return func(c *fakeChild) {
		c.writeLines(lines...)
		c.closeOutput()
		c.exit(errors.New("exit status 1"))
	}
}

// runForever writes lines and then stays alive until stopped.
func runForever(lines ...string) script {
	return func(c *fakeChild) {
		c.writeLines(lines...)
		<-c.exited
	}
}

// fakeChild is an in-memory Child backed by io.Pipe streams.
type fakeChild struct {
	launcher *fakeLauncher
	pid      int

	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	exited   chan struct{}
	exitOnce sync.Once
	exitErr  error

	closeOnce sync.Once
	stopped   atomic.Bool
}

func (c *fakeChild) Pid() int                { return c.pid }
func (c *fakeChild) Stdout() io.Reader       { return c.stdoutR }
func (c *fakeChild) Stderr() io.Reader       { return c.stderrR }
func (c *fakeChild) Exited() <-chan struct{} { return c.exited }

func (c *fakeChild) ExitErr() error {
	select {
	case <-c.exited:
		return c.exitErr
	default:
		return nil
	}
}

func (c *fakeChild) Stop(_ time.Duration) error {
	c.stopped.Store(true)
	c.exit(errTerminated)
	c.closeOutput()
	return nil
}

func (c *fakeChild) Close() {
	c.closeOnce.Do(func() {
		_ = c.stdoutR.Close()
		_ = c.stderrR.Close()
		c.launcher.discard()
	})
}

func (c *fakeChild) writeLines(lines ...string) {
	for _, l := range lines {
		if _, err := io.WriteString(c.stdoutW, l); err != nil {
			return
		}
	}
}

func (c *fakeChild) writeStderr(lines ...string) {
	for _, l := range lines {
		if _, err := io.WriteString(c.stderrW, l); err != nil {
			return
		}
	}
}

func (c *fakeChild) closeOutput() {
	_ = c.stdoutW.Close()
	_ = c.stderrW.Close()
}

func (c *fakeChild) exit(err error) {
	c.exitOnce.Do(func() {
		c.exitErr = err
		c.launcher.recordExit()
		close(c.exited)
	})
}

// fakeLauncher hands out fakeChild values driven by scripts. The i-th launch
// uses scripts[i]; launches past the end reuse the last script. The first
// failures launches return failErr instead.
//
// It instruments creation and discard so tests can check that at most one
// child is ever live.
type fakeLauncher struct {
	scripts  []script
	failErr  error
	failures int

	mu          sync.Mutex
	launchTimes []time.Time
	exitTimes   []time.Time
	attempts    int
	children    []*fakeChild

	live    atomic.Int64
	maxLive atomic.Int64
}

func newFakeLauncher(scripts ...script) *fakeLauncher {
	return &fakeLauncher{scripts: scripts}
}

//nolint:ireturn // Satisfies Launcher.
func (l *fakeLauncher) Launch(ctx context.Context, _ Command) (Child, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	attempt := l.attempts
	l.attempts++
	if attempt < l.failures {
		l.mu.Unlock()
		return nil, l.failErr
	}
	idx := len(l.children)
	s := l.scripts[min(idx, len(l.scripts)-1)]

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	c := &fakeChild{
		launcher: l,
		pid:      1000 + idx,
		stdoutR:  stdoutR,
		stdoutW:  stdoutW,
		stderrR:  stderrR,
		stderrW:  stderrW,
		exited:   make(chan struct{}),
	}
	l.children = append(l.children, c)
	l.launchTimes = append(l.launchTimes, time.Now())
	l.mu.Unlock()

	n := l.live.Add(1)
	for {
		prev := l.maxLive.Load()
		if n <= prev || l.maxLive.CompareAndSwap(prev, n) {
			break
		}
	}

	go s(c)
	return c, nil
}

func (l *fakeLauncher) discard() {
	l.live.Add(-1)
}

func (l *fakeLauncher) recordExit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exitTimes = append(l.exitTimes, time.Now())
}

func (l *fakeLauncher) launched() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children)
}

func (l *fakeLauncher) child(i int) *fakeChild {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.children[i]
}

func (l *fakeLauncher) times() (launches, exits []time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]time.Time(nil), l.launchTimes...), append([]time.Time(nil), l.exitTimes...)
}

// testConfig returns a valid Config wired to out and l.
func testConfig(out io.Writer, l Launcher) Config {
	return Config{
		Command: Command{
			Name: "cloudflared",
			Path: "cloudflared",
			Args: []string{"tunnel", "--url", "http://localhost:3000"},
		},
		RestartDelay: testDelay,
		StopTimeout:  time.Second,
		DrainTimeout: time.Second,
		TargetURL:    "http://localhost:3000",
		Output:       out,
		Launcher:     l,
	}
}

// runAsync starts s.Run on a goroutine and returns a cancel func and a
// channel receiving Run's result.
func runAsync(t *testing.T, s *Supervisor) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		done <- s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-finished:
		case <-time.After(10 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return cancel, done
}

// waitFor polls cond until it holds or timeout elapses.
func waitFor(t *testing.T, what string, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// waitResult waits for Run's result.
func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}
