package process

import (
	"time"
)

// Stoppable is a process handle that can be stopped and have its resources
// released.
type Stoppable interface {
	Stop(timeout time.Duration) error
	Close()
}

// StopAndClose stops s and then closes it. Close runs even when Stop fails:
// a handle in an unknown state still has pipe ends to release. The Stop
// error is returned. A nil s is a no-op.
func StopAndClose(s Stoppable, timeout time.Duration) error {
	if s == nil {
		return nil
	}
	defer s.Close()
	return s.Stop(timeout)
}
