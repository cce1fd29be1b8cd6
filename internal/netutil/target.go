package netutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/giantswarm/tunnelkeeper/internal/sentinel"
)

// ErrNoHost is returned by DialAddress when the URL has no host.
const ErrNoHost = sentinel.Error("target URL has no host")

// defaultPorts maps URL schemes to the port used when the URL omits one.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"tcp":   "",
	"ssh":   "22",
	"rdp":   "3389",
}

// DialAddress returns the host:port a target URL such as
// "http://localhost:3000" resolves to. A missing port falls back to the
// scheme's well-known port.
func DialAddress(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse target URL %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: %q", ErrNoHost, rawURL)
	}
	port := u.Port()
	if port == "" {
		port = defaultPorts[strings.ToLower(u.Scheme)]
	}
	if port == "" {
		return "", fmt.Errorf("target URL %q: no port and no default for scheme %q", rawURL, u.Scheme)
	}
	return net.JoinHostPort(host, port), nil
}

// ProbeTCP makes one connection attempt to addr and closes it on success.
func ProbeTCP(ctx context.Context, addr string, timeout time.Duration) error {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
