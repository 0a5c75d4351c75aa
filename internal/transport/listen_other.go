//go:build !unix

package transport

import (
	"context"
	"net"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
)

// listenStream binds ep with the portable listener.  The runtime picks
// the backlog on these platforms, so the requested value is advisory.
func listenStream(ep endpoint.Endpoint, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), ep.Network(), ep.String())
	if err != nil {
		return nil, ncerr.Wrap(ncerr.KindBind, "bind", ep.String(), err)
	}
	return ln, nil
}
