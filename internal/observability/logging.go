package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

const redactedValue = "[REDACTED]"

// Config holds the logger settings.
type Config struct {
	Level  string
	Format string
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// RunID identifies one supervisor invocation. A random UUID is used
	// when empty.
	RunID   string
	Version string
}

// NewLogger creates a structured logger from cfg.
func NewLogger(cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("invalid log format: %q (allowed: text, json)", cfg.Format)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := slog.New(handler).With(slog.String("run.id", runID))
	if cfg.Version != "" {
		logger = logger.With(slog.String("version", cfg.Version))
	}
	return logger, nil
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, fmt.Errorf("invalid log level: %q (allowed: error, warn, info, debug)", level)
	}
}

func redactAttr(_ []string, attr slog.Attr) slog.Attr {
	if isSensitiveKey(strings.ToLower(attr.Key)) {
		return slog.String(attr.Key, redactedValue)
	}
	return attr
}

func isSensitiveKey(key string) bool {
	for _, pattern := range []string{"token", "secret", "credential", "password"} {
		if strings.Contains(key, pattern) {
			return true
		}
	}
	return false
}

// RedactArgs returns a copy of a command line with the values of
// credential-bearing flags replaced. Both "--token value" and
// "--token=value" forms are handled.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		name, _, hasValue := strings.Cut(out[i], "=")
		if !strings.HasPrefix(name, "-") || !isSensitiveKey(strings.ToLower(strings.TrimLeft(name, "-"))) {
			continue
		}
		if hasValue {
			out[i] = name + "=" + redactedValue
			continue
		}
		if i+1 < len(out) {
			out[i+1] = redactedValue
			i++
		}
	}
	return out
}
