// Package observability builds the diagnostic slog logger for the
// tunnelkeeper command. Diagnostics go to stderr so they never interleave
// with the relayed tunnel output on stdout.
package observability
