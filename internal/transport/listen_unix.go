//go:build unix

package transport

import (
	"net"
	"os"

	"golang.org/x/sys/unix"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
)

// listenStream creates a stream socket for ep's family, binds it and
// calls listen(2) with exactly the requested backlog.  The descriptor
// is closed on every failure path.
func listenStream(ep endpoint.Endpoint, backlog int) (net.Listener, error) {
	domain := unix.AF_INET6
	if ep.Family == endpoint.FamilyIPv4 {
		domain = unix.AF_INET
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.KindHandle, "socket", ep.String(), os.NewSyscallError("socket", err))
	}
	unix.CloseOnExec(fd)

	ok := false
	defer func() {
		if !ok {
			unix.Close(fd) //nolint:errcheck
		}
	}()

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return nil, ncerr.Wrap(ncerr.KindHandle, "setsockopt", ep.String(), os.NewSyscallError("setsockopt", err))
	}

	// A wildcard IPv6 socket also serves IPv4 clients, whatever the
	// host's bindv6only default.  Platforms without dual-stack sockets
	// reject the option; the socket stays IPv6-only there.
	if domain == unix.AF_INET6 && ep.Addr.Addr().IsUnspecified() {
		unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0) //nolint:errcheck
	}

	sa, err := sockaddr(ep)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.KindBind, "bind", ep.String(), err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		return nil, ncerr.Wrap(ncerr.KindBind, "bind", ep.String(), os.NewSyscallError("bind", err))
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return nil, ncerr.Wrap(ncerr.KindListen, "listen", ep.String(), os.NewSyscallError("listen", err))
	}

	// FileListener dups the descriptor; ours is released with f.
	f := os.NewFile(uintptr(fd), "tcp:"+ep.String())
	ok = true
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.KindListen, "listen", ep.String(), err)
	}
	return ln, nil
}

func sockaddr(ep endpoint.Endpoint) (unix.Sockaddr, error) {
	ip := ep.Addr.Addr()
	if ep.Family == endpoint.FamilyIPv4 {
		return &unix.SockaddrInet4{Port: ep.Port(), Addr: ip.As4()}, nil
	}

	sa := &unix.SockaddrInet6{Port: ep.Port(), Addr: ip.As16()}
	if zone := ip.Zone(); zone != "" {
		ifi, err := net.InterfaceByName(zone)
		if err != nil {
			return nil, err
		}
		sa.ZoneId = uint32(ifi.Index)
	}
	return sa, nil
}
