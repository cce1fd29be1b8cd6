// Package process owns the OS side of a supervised child: starting it with
// one pipe per output stream, a single cmd.Wait goroutine that broadcasts
// termination, the SIGTERM-then-SIGKILL stop sequence, and exit
// classification for logging.
package process
