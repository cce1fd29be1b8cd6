// Package netutil resolves the local service a tunnel points at to a TCP
// address, probes whether it accepts connections, and waits for it to.
package netutil
