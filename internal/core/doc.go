// Package core provides the internal implementation of tunnelkeeper.
// It contains the Supervisor (a two-state launch/restart cycle that keeps
// exactly one child alive), the Launcher/Child seam that separates it from
// os/exec, and the line relay that copies child output to the console.
package core
