package transport

import (
	"context"
	"io"
	"net"
	"net/netip"
	"sync/atomic"
	"testing"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/metrics"
	"sockdemo/util"
)

// countingDialer wraps TCPDialer and tracks how many connections it
// handed out are still open.
type countingDialer struct {
	TCPDialer
	attempts atomic.Int64
	open     atomic.Int64
}

type countedConn struct {
	net.Conn
	d    *countingDialer
	once atomic.Bool
}

func (c *countedConn) Close() error {
	if c.once.CompareAndSwap(false, true) {
		c.d.open.Add(-1)
	}
	return c.Conn.Close()
}

func (d *countingDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	d.attempts.Add(1)
	conn, err := d.TCPDialer.Dial(ctx, network, address)
	if err != nil {
		return nil, err
	}
	d.open.Add(1)
	return &countedConn{Conn: conn, d: d}, nil
}

// refusedEndpoint returns a loopback endpoint with nothing listening.
func refusedEndpoint(t *testing.T) endpoint.Endpoint {
	t.Helper()
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	return endpoint.New(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), uint16(port)))
}

func listenLoopback(t *testing.T) (net.Listener, endpoint.Endpoint) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	ep, err := endpoint.FromNetAddr(ln.Addr())
	if err != nil {
		t.Fatal(err)
	}
	return ln, ep
}

// TestTCPDialer_Connect verifies that TCPDialer can reach a local
// TCP server and exchange data.
func TestTCPDialer_Connect(t *testing.T) {
	ln, ep := listenLoopback(t)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hello from server\n")) //nolint:errcheck
	}()

	d := &TCPDialer{}
	conn, err := d.Dial(context.Background(), ep.Network(), ep.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "hello from server\n" {
		t.Errorf("got %q, want %q", got, "hello from server\n")
	}
}

// TestTCPDialer_ContextCancel verifies that a cancelled context stops the dial.
func TestTCPDialer_ContextCancel(t *testing.T) {
	d := &TCPDialer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Dial(ctx, "tcp", "127.0.0.1:1"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// TestDialFirst_FallsBackToLastCandidate verifies candidates are tried
// in order and the first reachable one wins.
func TestDialFirst_FallsBackToLastCandidate(t *testing.T) {
	ln, good := listenLoopback(t)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	candidates := []endpoint.Endpoint{refusedEndpoint(t), refusedEndpoint(t), good}
	d := &countingDialer{}
	m := metrics.New()

	conn, used, err := DialFirst(context.Background(), d, candidates, util.NewLogger(0), m)
	if err != nil {
		t.Fatalf("DialFirst: %v", err)
	}
	defer conn.Close()

	if used != good {
		t.Errorf("used %s, want %s", used, good)
	}
	if conn.Peer() != good {
		t.Errorf("peer = %s, want %s", conn.Peer(), good)
	}
	if got := d.attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if m.CandidatesFailed() != 2 || m.CandidatesTried() != 3 {
		t.Errorf("metrics tried=%d failed=%d", m.CandidatesTried(), m.CandidatesFailed())
	}
}

// TestDialFirst_NoReachableCandidate verifies the aggregate failure.
func TestDialFirst_NoReachableCandidate(t *testing.T) {
	candidates := []endpoint.Endpoint{refusedEndpoint(t), refusedEndpoint(t)}
	d := &countingDialer{}

	conn, _, err := DialFirst(context.Background(), d, candidates, util.NewLogger(0), nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected error")
	}
	if ncerr.KindOf(err) != ncerr.KindNoReachable {
		t.Errorf("kind = %v, want no-reachable-candidate", ncerr.KindOf(err))
	}
	if d.attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", d.attempts.Load())
	}
	if d.open.Load() != 0 {
		t.Errorf("%d connection(s) leaked", d.open.Load())
	}

	_, _, err = DialFirst(context.Background(), d, nil, util.NewLogger(0), nil)
	if !ncerr.Is(err, ncerr.ErrNoCandidates) {
		t.Errorf("empty candidates err = %v", err)
	}
}

// TestConn_ClosedRejectsIO verifies every operation fails after Close.
func TestConn_ClosedRejectsIO(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	m := metrics.New()
	conn := newConn(client, endpoint.Endpoint{}, m)
	if m.ActiveConnections() != 1 {
		t.Fatalf("active = %d, want 1", m.ActiveConnections())
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !conn.Closed() {
		t.Error("Closed() = false after Close")
	}
	if m.ActiveConnections() != 0 {
		t.Errorf("active = %d after close, want 0", m.ActiveConnections())
	}

	if _, err := conn.Read(make([]byte, 1)); !ncerr.Is(err, ncerr.ErrClosed) {
		t.Errorf("Read err = %v, want ErrClosed", err)
	}
	if _, err := conn.Write([]byte("x")); !ncerr.Is(err, ncerr.ErrClosed) {
		t.Errorf("Write err = %v, want ErrClosed", err)
	}
	if err := conn.CloseWrite(); !ncerr.Is(err, ncerr.ErrClosed) {
		t.Errorf("CloseWrite err = %v, want ErrClosed", err)
	}
}
