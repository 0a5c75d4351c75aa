package core

import (
	"context"
	"fmt"
	"io"

	"sockdemo/internal/endpoint"
	"sockdemo/internal/report"
	"sockdemo/internal/resolve"
	"sockdemo/util"
)

// ResolveMode resolves a host/service pair, prints the candidates and
// releases them without opening any socket.  It backs the resolve
// command (passive, wildcard host) and --dry-run for client and server.
type ResolveMode struct {
	Resolver  *resolve.Resolver
	Formatter report.Formatter
	Host      string
	Service   string
	Family    endpoint.Family
	Passive   bool
	Logger    *util.Logger

	stdio
}

// Run performs the resolution and prints the listing.
func (m *ResolveMode) Run(ctx context.Context) error {
	m.Logger.Verbose("resolving %s (passive=%t, family=%s)",
		util.FormatService(m.Host, m.Service), m.Passive, m.Family)
	return printCandidates(ctx, m.Resolver, m.Formatter, m.stdout(),
		m.Host, m.Service, resolve.Hints{Family: m.Family, Passive: m.Passive})
}

// LookupMode prints every address of a host: the showip demo.
type LookupMode struct {
	Resolver  *resolve.Resolver
	Formatter report.Formatter
	Host      string
	Family    endpoint.Family
	Logger    *util.Logger

	stdio
}

// Run looks up Host and prints its addresses.
func (m *LookupMode) Run(ctx context.Context) error {
	m.Logger.Verbose("looking up %s", m.Host)
	return printCandidates(ctx, m.Resolver, m.Formatter, m.stdout(),
		m.Host, "", resolve.Hints{Family: m.Family})
}

func printCandidates(ctx context.Context, r *resolve.Resolver, f report.Formatter, w io.Writer,
	host, service string, hints resolve.Hints) error {
	candidates, err := r.Resolve(ctx, host, service, hints)
	if err != nil {
		return err
	}
	if f == nil {
		f = &report.TextFormatter{}
	}
	_, err = fmt.Fprint(w, f.Format(report.NewListing(host, service, candidates)))
	return err
}
