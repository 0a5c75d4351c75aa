package core

import (
	"context"
	"fmt"

	"sockdemo/internal/capability"
	"sockdemo/internal/endpoint"
	"sockdemo/internal/metrics"
	"sockdemo/internal/resolve"
	"sockdemo/internal/session"
	"sockdemo/internal/transport"
	"sockdemo/util"
)

// ListenMode binds a local port, accepts exactly one client and runs
// a capability on it: the server demo.  The listener is closed as soon
// as the client is accepted, so later clients are refused.
type ListenMode struct {
	Resolver   *resolve.Resolver
	Capability capability.Capability
	Host       string // empty binds the wildcard address
	Service    string
	Family     endpoint.Family
	Backlog    int
	Logger     *util.Logger
	Metrics    *metrics.Collector

	// OnListen, if set, is called with the bound address once the
	// socket is listening.
	OnListen func(endpoint.Endpoint)

	stdio
}

// Run binds, accepts one connection, and serves it.
func (m *ListenMode) Run(ctx context.Context) error {
	candidates, err := m.Resolver.Resolve(ctx, m.Host, m.Service,
		resolve.Hints{Family: m.Family, Passive: true})
	if err != nil {
		return err
	}

	ln, err := transport.Listen(ctx, candidates, m.Backlog, m.Logger, m.Metrics)
	if err != nil {
		return err
	}
	defer ln.Close()

	fmt.Fprintln(m.stdout(), "Socket bound. Listening for an inbound connection...")
	if m.OnListen != nil {
		m.OnListen(ln.Addr())
	}

	conn, peer, err := ln.AcceptOnce(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Fprintf(m.stdout(), "Connection has been accepted.\nClient IP: %s\n", peer.Presentation())

	sess := session.New(conn, m.stdin(), m.stdout(), m.Logger)
	return m.Capability.Handle(ctx, sess)
}
