package netutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/tunnelkeeper/internal/sentinel"
)

// Configuration errors returned by WaitForTCP.
const (
	ErrIntervalNotPositive = sentinel.Error("poll interval must be positive")
	ErrTimeoutNotPositive  = sentinel.Error("wait timeout must be positive")
)

// progressEvery is how many failed probes pass between info-level progress
// records. Individual failures are logged at debug level.
const progressEvery = 20

// WaitConfig configures WaitForTCP.
type WaitConfig struct {
	Addr        string        // host:port to dial
	Interval    time.Duration // gap between probes
	Timeout     time.Duration // overall budget
	DialTimeout time.Duration // per-probe bound; Interval when zero
	Logger      *slog.Logger  // defaults to slog.Default()
}

// WaitForTCP probes cfg.Addr until a TCP connection succeeds, cfg.Timeout
// elapses, or ctx is canceled. The first probe happens immediately.
//
// A refused or timed-out dial is never fatal; only the overall deadline or
// cancellation ends the wait with an error.
func WaitForTCP(ctx context.Context, cfg WaitConfig) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Addr, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Addr, ErrTimeoutNotPositive)
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = cfg.Interval
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	start := time.Now()
	// PollUntilContextTimeout calls the condition sequentially.
	attempt := 0
	err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			attempt++
			probeErr := ProbeTCP(pollCtx, cfg.Addr, dialTimeout)
			if probeErr == nil {
				log.Debug("target accepting connections",
					"addr", cfg.Addr, "attempt", attempt, "waited", time.Since(start))
				return true, nil
			}
			if attempt%progressEvery == 0 {
				log.Info("still waiting for target",
					"addr", cfg.Addr, "attempt", attempt, "waited", time.Since(start))
			} else {
				log.Debug("target not ready", "addr", cfg.Addr, "attempt", attempt, "error", probeErr)
			}
			return false, nil
		})
	if err != nil {
		return fmt.Errorf("wait for %s after %d attempts: %w", cfg.Addr, attempt, err)
	}
	return nil
}
