// Package resolve turns a host/service pair into an ordered list of
// candidate stream endpoints.
package resolve

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/util"
)

// Lookuper is the subset of *net.Resolver used here.  It lets tests
// inject fixed, ordered answers.
type Lookuper interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// Hints narrow a resolution.
type Hints struct {
	Family endpoint.Family
	// Passive asks for wildcard local addresses when host is empty,
	// for binding a server socket.
	Passive bool
}

// Resolver resolves host/service pairs into stream endpoints.
type Resolver struct {
	Lookup Lookuper
	Logger *util.Logger
}

// New returns a Resolver backed by the system resolver.
func New(logger *util.Logger) *Resolver {
	return &Resolver{Lookup: net.DefaultResolver, Logger: logger}
}

// Resolve returns the candidates for host and service in resolver
// order.  An empty host means "any local address" (wildcard when
// passive, loopback otherwise); an empty service means port 0 and is
// only valid with a host.  The result is never empty on success.
func (r *Resolver) Resolve(ctx context.Context, host, service string, hints Hints) ([]endpoint.Endpoint, error) {
	target := util.FormatService(host, service)

	if host == "" && service == "" {
		return nil, ncerr.Wrap(ncerr.KindResolution, "resolve", target,
			fmt.Errorf("host and service cannot both be empty"))
	}

	port, err := r.port(ctx, service)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.KindResolution, "resolve", target, err)
	}

	var addrs []netip.Addr
	if host == "" {
		addrs = localAddrs(hints)
	} else {
		addrs, err = r.Lookup.LookupNetIP(ctx, hints.Family.IPNetwork(), host)
		if err != nil {
			return nil, ncerr.Wrap(ncerr.KindResolution, "resolve", target, err)
		}
	}

	out := make([]endpoint.Endpoint, 0, len(addrs))
	for _, a := range addrs {
		ep := endpoint.New(netip.AddrPortFrom(a, uint16(port)))
		if hints.Family != endpoint.FamilyUnspec && ep.Family != hints.Family {
			continue
		}
		out = append(out, ep)
	}
	if len(out) == 0 {
		return nil, ncerr.Wrap(ncerr.KindResolution, "resolve", target, ncerr.ErrNoAddresses)
	}

	if r.Logger != nil {
		r.Logger.Debug("resolved %s to %d candidate(s)", target, len(out))
	}
	return out, nil
}

func (r *Resolver) port(ctx context.Context, service string) (int, error) {
	if service == "" {
		return 0, nil
	}
	port, err := r.Lookup.LookupPort(ctx, "tcp", service)
	if err != nil {
		return 0, err
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 0-65535", port)
	}
	return port, nil
}

// localAddrs returns the addresses used for an empty host: the
// wildcard for passive resolution, loopback otherwise.  IPv6 comes
// first so a dual-stack socket is preferred when the host supports it.
func localAddrs(hints Hints) []netip.Addr {
	v6, v4 := netip.IPv6Loopback(), netip.AddrFrom4([4]byte{127, 0, 0, 1})
	if hints.Passive {
		v6, v4 = netip.IPv6Unspecified(), netip.IPv4Unspecified()
	}
	switch hints.Family {
	case endpoint.FamilyIPv4:
		return []netip.Addr{v4}
	case endpoint.FamilyIPv6:
		return []netip.Addr{v6}
	default:
		return []netip.Addr{v6, v4}
	}
}
