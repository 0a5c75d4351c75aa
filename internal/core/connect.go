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

// ConnectMode resolves a remote host, connects to the first reachable
// candidate and runs a capability on the connection: the client demo.
type ConnectMode struct {
	Resolver   *resolve.Resolver
	Dialer     transport.Dialer
	Capability capability.Capability
	Host       string
	Service    string
	Family     endpoint.Family
	Logger     *util.Logger
	Metrics    *metrics.Collector

	stdio
}

// Run resolves, connects, and hands the session to the capability.
// The connection and dialer are closed when Run returns.
func (m *ConnectMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	target := util.FormatService(m.Host, m.Service)
	m.Logger.Verbose("resolving %s", target)

	candidates, err := m.Resolver.Resolve(ctx, m.Host, m.Service, resolve.Hints{Family: m.Family})
	if err != nil {
		return err
	}

	conn, ep, err := transport.DialFirst(ctx, m.Dialer, candidates, m.Logger, m.Metrics)
	if err != nil {
		return err
	}
	defer conn.Close()

	m.Logger.Verbose("connected to %s", ep)
	fmt.Fprintf(m.stdout(), "Successfully connected to host.\nServer IP: %s\n", ep.Presentation())

	sess := session.New(conn, m.stdin(), m.stdout(), m.Logger)
	return m.Capability.Handle(ctx, sess)
}
