//go:build !linux

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// configureSysProcAttr is a no-op outside Linux; Pdeathsig is Linux-only.
func configureSysProcAttr(_ *exec.Cmd) {}

// signalProcess sends sig to p alone.
func signalProcess(p *os.Process, sig syscall.Signal) error {
	return p.Signal(sig)
}
