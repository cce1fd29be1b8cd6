package tunnelkeeper

import (
	"log/slog"

	"github.com/giantswarm/tunnelkeeper/internal/core"
)

// SetLogger replaces the package-level logger used for diagnostics.
// Diagnostics never go to the relay output; the tunnel's lines and the
// restart notices are written to the Output writer only.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with Run, but a Supervisor keeps
// the logger it was created with. Call SetLogger before New.
//
// Example:
//
//	tunnelkeeper.SetLogger(myLogger.With("component", "tunnelkeeper"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
