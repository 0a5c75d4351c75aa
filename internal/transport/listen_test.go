package transport

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/util"
)

func loopbackCandidate(port int) endpoint.Endpoint {
	return endpoint.New(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), uint16(port)))
}

// TestListen_EphemeralPort verifies port 0 is replaced by the bound port.
func TestListen_EphemeralPort(t *testing.T) {
	ln, err := Listen(context.Background(), []endpoint.Endpoint{loopbackCandidate(0)}, 5, util.NewLogger(0), nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if ln.Addr().Port() == 0 {
		t.Error("expected kernel-assigned port")
	}
	if ln.Addr().Family != endpoint.FamilyIPv4 {
		t.Errorf("family = %v", ln.Addr().Family)
	}
}

// TestListen_SkipsUnusableCandidate verifies a bind failure moves on to
// the next candidate.
func TestListen_SkipsUnusableCandidate(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	busyEp, _ := endpoint.FromNetAddr(busy.Addr())

	ln, err := Listen(context.Background(),
		[]endpoint.Endpoint{busyEp, loopbackCandidate(0)}, 5, util.NewLogger(0), nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if ln.Addr().Port() == busyEp.Port() {
		t.Error("bound the busy candidate")
	}
}

// TestListen_NoUsableCandidate verifies the fatal bind error.
func TestListen_NoUsableCandidate(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	busyEp, _ := endpoint.FromNetAddr(busy.Addr())

	_, err = Listen(context.Background(), []endpoint.Endpoint{busyEp}, 5, util.NewLogger(0), nil)
	if ncerr.KindOf(err) != ncerr.KindBind {
		t.Errorf("err = %v (kind %v), want bind error", err, ncerr.KindOf(err))
	}
}

// TestListener_AcceptOnce verifies a single accept closes the listener,
// so a second client is refused.
func TestListener_AcceptOnce(t *testing.T) {
	ln, err := Listen(context.Background(), []endpoint.Endpoint{loopbackCandidate(0)}, 5, util.NewLogger(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()

	dialed := make(chan net.Conn, 1)
	go func() {
		c, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err != nil {
			dialed <- nil
			return
		}
		dialed <- c
	}()

	conn, peer, err := ln.AcceptOnce(context.Background())
	if err != nil {
		t.Fatalf("AcceptOnce: %v", err)
	}
	defer conn.Close()

	client := <-dialed
	if client == nil {
		t.Fatal("client dial failed")
	}
	defer client.Close()

	if peer.String() != client.LocalAddr().String() {
		t.Errorf("peer = %s, want %s", peer, client.LocalAddr())
	}

	second, err := net.DialTimeout("tcp", addr, time.Second)
	if err == nil {
		second.Close()
		t.Fatal("second connection was accepted by a single-shot listener")
	}
}

// TestListener_AcceptCancelled verifies context cancellation unblocks
// the accept and releases the listener.
func TestListener_AcceptCancelled(t *testing.T) {
	ln, err := Listen(context.Background(), []endpoint.Endpoint{loopbackCandidate(0)}, 5, util.NewLogger(0), nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, _, err = ln.AcceptOnce(ctx)
	if !ncerr.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if err := ln.Close(); err != nil {
		t.Errorf("Close after AcceptOnce: %v", err)
	}
}
