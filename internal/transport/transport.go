// Package transport establishes stream connections on resolved
// endpoints.  Client mode walks the candidate list with a Dialer until
// one connects; server mode binds the first usable candidate and
// accepts exactly one peer.  What happens over the connection is the
// exchange layer's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through a gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
