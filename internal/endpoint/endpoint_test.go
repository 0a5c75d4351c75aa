package endpoint

import (
	"net"
	"net/netip"
	"testing"
)

func TestNew_UnmapsAndTagsFamily(t *testing.T) {
	tests := []struct {
		in      string
		family  Family
		present string
		network string
		str     string
	}{
		{"127.0.0.1:80", FamilyIPv4, "127.0.0.1", "tcp4", "127.0.0.1:80"},
		{"[::ffff:10.0.0.1]:22", FamilyIPv4, "10.0.0.1", "tcp4", "10.0.0.1:22"},
		{"[::1]:8080", FamilyIPv6, "::1", "tcp6", "[::1]:8080"},
		{"[2001:db8::1]:443", FamilyIPv6, "2001:db8::1", "tcp6", "[2001:db8::1]:443"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ep := New(netip.MustParseAddrPort(tt.in))
			if ep.Family != tt.family {
				t.Errorf("family = %v, want %v", ep.Family, tt.family)
			}
			if ep.Transport != "tcp" {
				t.Errorf("transport = %q", ep.Transport)
			}
			if got := ep.Presentation(); got != tt.present {
				t.Errorf("Presentation = %q, want %q", got, tt.present)
			}
			if got := ep.Network(); got != tt.network {
				t.Errorf("Network = %q, want %q", got, tt.network)
			}
			if got := ep.String(); got != tt.str {
				t.Errorf("String = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestFromNetAddr(t *testing.T) {
	ep, err := FromNetAddr(&net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 5000})
	if err != nil {
		t.Fatal(err)
	}
	if ep.Family != FamilyIPv4 || ep.Port() != 5000 || ep.Presentation() != "192.168.1.5" {
		t.Errorf("got %+v", ep)
	}

	if _, err := FromNetAddr(nil); err == nil {
		t.Error("expected error for nil address")
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in      string
		want    Family
		wantErr bool
	}{
		{"", FamilyUnspec, false},
		{"any", FamilyUnspec, false},
		{"4", FamilyIPv4, false},
		{"IPv4", FamilyIPv4, false},
		{"6", FamilyIPv6, false},
		{"inet6", FamilyIPv6, false},
		{"ipx", FamilyUnspec, true},
	}
	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFamily(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFamily(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFamily_IPNetwork(t *testing.T) {
	if FamilyUnspec.IPNetwork() != "ip" || FamilyIPv4.IPNetwork() != "ip4" || FamilyIPv6.IPNetwork() != "ip6" {
		t.Error("unexpected resolver network names")
	}
}
