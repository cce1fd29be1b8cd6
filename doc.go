// Package tunnelkeeper keeps a Cloudflare quick tunnel alive.
//
// A Supervisor launches "cloudflared tunnel --url http://localhost:3000",
// copies every line the tunnel prints to standard output, and relaunches it
// a fixed five seconds after each exit, for as long as its context lives.
// Exactly one tunnel process is alive at any time.
//
// # Basic Usage
//
//	import "github.com/giantswarm/tunnelkeeper"
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	sup := tunnelkeeper.New()
//	if err := sup.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run writes the following to standard output for a tunnel that prints two
// lines and then dies:
//
//	Starting Cloudflare Tunnel...
//	<line 1>
//	<line 2>
//	Tunnel closed! Restarting in 5 seconds...
//	Starting Cloudflare Tunnel...
//
// # Failure Handling
//
// Every exit, clean or not, is followed by the same fixed delay; there is no
// backoff. A tunnel binary that cannot be started at all makes Run return an
// error wrapping ErrLaunchFailed, unless WithLaunchFailurePolicy selects
// LaunchFailRetry.
package tunnelkeeper
