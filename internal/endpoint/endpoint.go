// Package endpoint defines the resolved network address that flows from
// the resolver to the connection establisher, and its human-readable
// presentation form.
package endpoint

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// Family is an address family preference or tag.
type Family int

const (
	FamilyUnspec Family = iota
	FamilyIPv4
	FamilyIPv6
)

// ParseFamily accepts "", "any", "4", "ipv4", "6", "ipv6".
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "", "any", "unspec":
		return FamilyUnspec, nil
	case "4", "ipv4", "inet":
		return FamilyIPv4, nil
	case "6", "ipv6", "inet6":
		return FamilyIPv6, nil
	}
	return FamilyUnspec, fmt.Errorf("unknown address family %q", s)
}

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	default:
		return "any"
	}
}

// IPNetwork returns the net.Resolver network name for the family.
func (f Family) IPNetwork() string {
	switch f {
	case FamilyIPv4:
		return "ip4"
	case FamilyIPv6:
		return "ip6"
	default:
		return "ip"
	}
}

// Endpoint is one resolved stream endpoint.  Values are immutable.
type Endpoint struct {
	Family    Family
	Transport string // always "tcp"
	Addr      netip.AddrPort
}

// New builds a stream Endpoint from addr, unmapping 4-in-6 addresses
// and deriving the family.
func New(addr netip.AddrPort) Endpoint {
	ip := addr.Addr().Unmap()
	fam := FamilyIPv6
	if ip.Is4() {
		fam = FamilyIPv4
	}
	return Endpoint{
		Family:    fam,
		Transport: "tcp",
		Addr:      netip.AddrPortFrom(ip, addr.Port()),
	}
}

// FromNetAddr converts a *net.TCPAddr (as returned by Accept or Dial)
// to an Endpoint.
func FromNetAddr(a net.Addr) (Endpoint, error) {
	switch v := a.(type) {
	case *net.TCPAddr:
		return New(v.AddrPort()), nil
	case nil:
		return Endpoint{}, fmt.Errorf("nil address")
	}
	ap, err := netip.ParseAddrPort(a.String())
	if err != nil {
		return Endpoint{}, fmt.Errorf("address %q: %w", a.String(), err)
	}
	return New(ap), nil
}

// Network returns "tcp4" or "tcp6" so dials and listens stay on the
// endpoint's family.
func (e Endpoint) Network() string {
	if e.Family == FamilyIPv4 {
		return "tcp4"
	}
	return "tcp6"
}

// Port returns the endpoint port.
func (e Endpoint) Port() int { return int(e.Addr.Port()) }

// Presentation returns the address in dotted-decimal or colon-hex form.
func (e Endpoint) Presentation() string { return e.Addr.Addr().String() }

// String returns "host:port", bracketing IPv6 addresses.
func (e Endpoint) String() string { return e.Addr.String() }

// IsValid reports whether the endpoint carries an address.
func (e Endpoint) IsValid() bool { return e.Addr.IsValid() }
