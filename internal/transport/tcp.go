package transport

import (
	"context"
	"net"
)

// TCPDialer establishes plain TCP connections.  The zero value is
// ready to use and applies no timeout: an attempt blocks until the
// peer answers or the context is cancelled.
type TCPDialer struct{}

// Dial connects to address over TCP.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
