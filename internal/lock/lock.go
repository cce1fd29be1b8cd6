package lock

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/giantswarm/tunnelkeeper/internal/sentinel"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
const ErrLocked = sentinel.Error("lock is held by another process")

// TryAcquire takes an exclusive lock on path without blocking. The parent
// directory is created if missing. It returns ErrLocked (wrapped with the
// path) when the lock is already held.
func TryAcquire(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory for %s: %w", path, err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, ErrLocked)
	}
	return fl, nil
}

// Release unlocks and closes fl. The lock file stays on disk: removing it
// could invalidate a lock another process takes between our unlock and the
// removal. Errors are logged at debug level and otherwise ignored.
func Release(logger *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug("failed to release file lock", "path", fl.Path(), "err", err)
	}
}
