package core

import (
	"io"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	validConfig := func() Config {
		return Config{
			Command:      Command{Name: "cloudflared", Path: "cloudflared"},
			RestartDelay: 5 * time.Second,
			StopTimeout:  10 * time.Second,
			DrainTimeout: 2 * time.Second,
			Output:       io.Discard,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("target wait with URL is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.TargetURL = "http://localhost:3000"
		cfg.TargetWait = 30 * time.Second
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := map[string]struct {
		modify       func(c *Config)
		wantContains string
	}{
		"empty command name": {
			modify:       func(c *Config) { c.Command.Name = "" },
			wantContains: "command name",
		},
		"empty command path": {
			modify:       func(c *Config) { c.Command.Path = "" },
			wantContains: "command path",
		},
		"zero restart delay": {
			modify:       func(c *Config) { c.RestartDelay = 0 },
			wantContains: "restart delay",
		},
		"negative restart delay": {
			modify:       func(c *Config) { c.RestartDelay = -time.Second },
			wantContains: "restart delay",
		},
		"zero stop timeout": {
			modify:       func(c *Config) { c.StopTimeout = 0 },
			wantContains: "stop timeout",
		},
		"zero drain timeout": {
			modify:       func(c *Config) { c.DrainTimeout = 0 },
			wantContains: "drain timeout",
		},
		"negative target wait": {
			modify:       func(c *Config) { c.TargetWait = -1 },
			wantContains: "target wait must not be negative",
		},
		"target wait without URL": {
			modify:       func(c *Config) { c.TargetWait = time.Second },
			wantContains: "target wait requires a target URL",
		},
		"invalid launch failure policy": {
			modify:       func(c *Config) { c.LaunchFailurePolicy = LaunchFailurePolicy(99) },
			wantContains: "launch failure policy",
		},
		"invalid stderr mode boundary": {
			modify:       func(c *Config) { c.StderrMode = StderrMode(3) },
			wantContains: "stderr mode",
		},
		"nil output": {
			modify:       func(c *Config) { c.Output = nil },
			wantContains: "output writer",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantContains) {
				t.Errorf("error %q should contain %q", err.Error(), tc.wantContains)
			}
		})
	}

	t.Run("multiple errors joined", func(t *testing.T) {
		t.Parallel()
		cfg := Config{TargetWait: time.Second}

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for zero-value config")
		}

		errMsg := err.Error()
		expectedParts := []string{
			"command name",
			"command path",
			"restart delay",
			"stop timeout",
			"drain timeout",
			"target wait requires a target URL",
			"output writer",
		}

		for _, part := range expectedParts {
			if !strings.Contains(errMsg, part) {
				t.Errorf("error %q should contain %q", errMsg, part)
			}
		}
	})
}

func TestParseLaunchFailurePolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    LaunchFailurePolicy
		wantErr bool
	}{
		"fatal":            {in: "fatal", want: LaunchFailFatal},
		"retry":            {in: "retry", want: LaunchFailRetry},
		"case insensitive": {in: " Retry ", want: LaunchFailRetry},
		"empty":            {in: "", wantErr: true},
		"unknown":          {in: "ignore", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLaunchFailurePolicy(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseLaunchFailurePolicy(%q) = %v, want error", tc.in, got)
				}
				if !strings.Contains(err.Error(), "allowed: fatal, retry") {
					t.Errorf("error %q should list allowed values", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
			if round, _ := ParseLaunchFailurePolicy(got.String()); round != got {
				t.Errorf("String() %q does not parse back to %v", got.String(), got)
			}
		})
	}
}

func TestParseStderrMode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    StderrMode
		wantErr bool
	}{
		"discard": {in: "discard", want: StderrDiscard},
		"merge":   {in: "merge", want: StderrMerge},
		"log":     {in: "LOG", want: StderrLog},
		"unknown": {in: "stdout", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStderrMode(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseStderrMode(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
			if round, _ := ParseStderrMode(got.String()); round != got {
				t.Errorf("String() %q does not parse back to %v", got.String(), got)
			}
		})
	}
}

func TestEnumStringUnknown(t *testing.T) {
	t.Parallel()

	if got := LaunchFailurePolicy(7).String(); got != "LaunchFailurePolicy(7)" {
		t.Errorf("LaunchFailurePolicy(7).String() = %q", got)
	}
	if got := StderrMode(7).String(); got != "StderrMode(7)" {
		t.Errorf("StderrMode(7).String() = %q", got)
	}
}

// TestConfigFieldCount is a canary test that detects when fields are added to
// Config without updating the public API in the root package.
//
// If this test fails, you added a field to core.Config. You must also:
//  1. Add a public WithXxx option function in options.go
//  2. Update expectedFields below to match the new count
func TestConfigFieldCount(t *testing.T) {
	t.Parallel()
	const expectedFields = 11 // Update this when adding new fields to Config.

	actual := reflect.TypeFor[Config]().NumField()
	if actual != expectedFields {
		t.Errorf("Config has %d fields, expected %d; "+
			"if you added a field, also add a WithXxx option in the root package options.go",
			actual, expectedFields)
	}
}
