package transport

import (
	"net"
	"sync"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/metrics"
)

// Conn is one established stream session.  It is owned by the caller
// until Close; every Read, Write or CloseWrite after Close fails with
// ErrClosed.
type Conn struct {
	raw     net.Conn
	local   endpoint.Endpoint
	peer    endpoint.Endpoint
	metrics *metrics.Collector

	mu     sync.Mutex
	closed bool
}

func newConn(raw net.Conn, peer endpoint.Endpoint, m *metrics.Collector) *Conn {
	local, _ := endpoint.FromNetAddr(raw.LocalAddr())
	if !peer.IsValid() {
		peer, _ = endpoint.FromNetAddr(raw.RemoteAddr())
	}
	m.ConnectionOpened()
	return &Conn{raw: raw, local: local, peer: peer, metrics: m}
}

// Local returns the local endpoint.  Connections forwarded through a
// gateway may report an invalid endpoint.
func (c *Conn) Local() endpoint.Endpoint { return c.local }

// Peer returns the remote endpoint.
func (c *Conn) Peer() endpoint.Endpoint { return c.peer }

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Read reads up to len(p) bytes in a single call.
func (c *Conn) Read(p []byte) (int, error) {
	if c.Closed() {
		return 0, ncerr.ErrClosed
	}
	n, err := c.raw.Read(p)
	c.metrics.BytesReceived(int64(n))
	return n, err
}

// Write writes all of p or returns an error.
func (c *Conn) Write(p []byte) (int, error) {
	if c.Closed() {
		return 0, ncerr.ErrClosed
	}
	n, err := c.raw.Write(p)
	c.metrics.BytesSent(int64(n))
	return n, err
}

// CloseWrite shuts down the sending side, so the peer reads EOF, when
// the underlying connection supports it.
func (c *Conn) CloseWrite() error {
	if c.Closed() {
		return ncerr.ErrClosed
	}
	if cw, ok := c.raw.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return nil
}

// Close releases the connection.  It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.metrics.ConnectionClosed()
	return c.raw.Close()
}
