// Command tunnelkeeper keeps "cloudflared tunnel --url http://localhost:3000"
// running, relaying its output and restarting it five seconds after every
// exit.
//
// Usage:
//
//	tunnelkeeper [flags]
//
// Exit codes: 0 after SIGINT or SIGTERM, 1 on unexpected errors, 2 when the
// tunnel binary cannot be started, 3 when another supervisor holds
// --lock-file, 64 on usage errors.
package main
