package core

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-level logger. Named "logger" rather than "log" to
// avoid shadowing the stdlib package. nil means no custom logger was set.
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches slog.Default() with the component attribute so it is
// not rebuilt on every call. SetLogger clears it, which is how callers pick
// up a later slog.SetDefault.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the custom logger if one was set, otherwise the cached
// default. Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "tunnelkeeper")
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// SetLogger replaces the package-level logger. A nil l restores the
// default, re-derived from slog.Default() on the next Logger call.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
