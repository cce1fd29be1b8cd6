package tunnelkeeper

import (
	"context"

	"github.com/giantswarm/tunnelkeeper/internal/core"
)

// Compile-time interface satisfaction check.
var _ Supervisor = (*supervisorWrapper)(nil)

// supervisorWrapper wraps core.Supervisor to implement the Supervisor
// interface.
//
// The core.Supervisor is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to reach internal
// methods that are not part of the public Supervisor interface.
type supervisorWrapper struct {
	sup *core.Supervisor
}

// Run wraps core.Supervisor.Run.
func (w *supervisorWrapper) Run(ctx context.Context) error {
	return w.sup.Run(ctx)
}

// State wraps core.Supervisor.State.
func (w *supervisorWrapper) State() State {
	return w.sup.State()
}

// Stats wraps core.Supervisor.Stats.
func (w *supervisorWrapper) Stats() Stats {
	return w.sup.Stats()
}

// New returns a Supervisor configured by opts. With no options it runs
// "cloudflared tunnel --url http://localhost:3000", restarts it 5 seconds
// after every exit, and writes to os.Stdout. New performs no I/O; call Run
// to start.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Supervisor interface by design for testability (mockable).
func New(opts ...Option) Supervisor {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &supervisorWrapper{sup: core.NewSupervisor(cfg.toCoreConfig())}
}
