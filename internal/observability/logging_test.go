package observability

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestNewLogger_JSONCarriesRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "info", Format: "json", Writer: &buf, RunID: "run-test"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("tunnel exited", "exit_code", 1, "tunnel_token", "abc")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["run.id"] != "run-test" {
		t.Errorf("run.id = %v, want run-test", rec["run.id"])
	}
	if rec["tunnel_token"] != redactedValue {
		t.Errorf("tunnel_token = %v, want redacted", rec["tunnel_token"])
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("output = %q, want only the warning", out)
	}
	if !strings.Contains(out, "run.id=") {
		t.Errorf("output = %q, want generated run.id", out)
	}
}

func TestNewLogger_InvalidSettings(t *testing.T) {
	t.Parallel()

	tests := map[string]Config{
		"bad level":  {Level: "verbose"},
		"bad format": {Format: "xml"},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewLogger(cfg); err == nil {
				t.Fatal("NewLogger() error = nil, want error")
			}
		})
	}
}

func TestRedactArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []string
		want []string
	}{
		"no secrets": {
			in:   []string{"tunnel", "--url", "http://localhost:3000"},
			want: []string{"tunnel", "--url", "http://localhost:3000"},
		},
		"separate value": {
			in:   []string{"tunnel", "run", "--token", "eyJh"},
			want: []string{"tunnel", "run", "--token", redactedValue},
		},
		"inline value": {
			in:   []string{"tunnel", "run", "--token=eyJh"},
			want: []string{"tunnel", "run", "--token=" + redactedValue},
		},
		"trailing flag": {
			in:   []string{"tunnel", "--token"},
			want: []string{"tunnel", "--token"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := slices.Clone(tc.in)
			got := RedactArgs(tc.in)
			if !slices.Equal(got, tc.want) {
				t.Errorf("RedactArgs() = %v, want %v", got, tc.want)
			}
			if !slices.Equal(tc.in, in) {
				t.Errorf("RedactArgs() modified its input: %v", tc.in)
			}
		})
	}
}
