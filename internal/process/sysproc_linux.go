//go:build linux

package process

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureSysProcAttr puts the child in a process group of its own and
// arms Pdeathsig.
//
// With its own group the tunnel no longer receives the terminal's SIGINT
// directly; the supervisor stops it instead, and can reach anything the
// tunnel forked through signalProcess. Pdeathsig delivers SIGTERM to the
// child when the supervisor thread that started it dies, so a supervisor
// killed with SIGKILL never leaves an orphaned tunnel behind.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: unix.SIGTERM,
	}
}

// signalProcess sends sig to p and then to p's process group. The error
// reports only on p itself: os.ErrProcessDone once it has been reaped.
// The group send is skipped in that case, since a reaped leader's pid may
// already belong to someone else.
func signalProcess(p *os.Process, sig syscall.Signal) error {
	if err := p.Signal(sig); err != nil {
		return err
	}
	// ESRCH here just means the group is already empty.
	_ = unix.Kill(-p.Pid, sig)
	return nil
}
