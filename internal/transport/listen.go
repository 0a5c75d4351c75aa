package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/metrics"
	"sockdemo/util"
)

// Listener is a passive handle bound to one resolved endpoint.  It
// serves a single AcceptOnce and is closed afterwards.
type Listener struct {
	ln      net.Listener
	local   endpoint.Endpoint
	logger  *util.Logger
	metrics *metrics.Collector
}

// Listen binds the first usable candidate and marks it passive with
// the given backlog.  Candidates whose socket cannot be created or
// bound are skipped; if none is usable the error is fatal.
func Listen(ctx context.Context, candidates []endpoint.Endpoint, backlog int, logger *util.Logger, m *metrics.Collector) (*Listener, error) {
	if len(candidates) == 0 {
		return nil, ncerr.Wrap(ncerr.KindBind, "bind", "", ncerr.ErrNoCandidates)
	}

	var errs []error
	for _, ep := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ln, err := listenStream(ep, backlog)
		if err != nil {
			m.CandidateTried(false)
			logger.Verbose("bind %s failed: %v", ep, err)
			errs = append(errs, err)
			continue
		}
		m.CandidateTried(true)

		local, lerr := endpoint.FromNetAddr(ln.Addr())
		if lerr != nil {
			local = ep
		}
		logger.Verbose("listening on %s (backlog %d)", local, backlog)
		return &Listener{ln: ln, local: local, logger: logger, metrics: m}, nil
	}

	return nil, listenFailure(candidates[0], errs)
}

// listenFailure picks the most specific kind among the per-candidate
// failures: a bind or listen failure outranks a socket creation one.
func listenFailure(first endpoint.Endpoint, errs []error) error {
	kind := ncerr.KindHandle
	for _, err := range errs {
		if k := ncerr.KindOf(err); k == ncerr.KindBind || k == ncerr.KindListen {
			kind = k
			break
		}
	}
	return ncerr.Wrap(kind, "listen", first.String(), ncerr.Join(errs...))
}

// Addr returns the bound local endpoint, with the kernel-chosen port
// filled in when port 0 was requested.
func (l *Listener) Addr() endpoint.Endpoint { return l.local }

// AcceptOnce blocks until exactly one inbound connection arrives, then
// closes the listening handle.  Cancelling ctx aborts the wait.
func (l *Listener) AcceptOnce(ctx context.Context) (*Conn, endpoint.Endpoint, error) {
	defer l.Close()

	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	raw, err := l.ln.Accept()
	stop()
	if err != nil {
		if ctx.Err() != nil {
			return nil, endpoint.Endpoint{}, fmt.Errorf("accept: %w", ctx.Err())
		}
		return nil, endpoint.Endpoint{}, ncerr.Wrap(ncerr.KindAccept, "accept", l.local.String(), err)
	}

	peer, err := endpoint.FromNetAddr(raw.RemoteAddr())
	if err != nil {
		raw.Close()
		return nil, endpoint.Endpoint{}, ncerr.Wrap(ncerr.KindAccept, "accept", l.local.String(), err)
	}
	l.logger.Verbose("connection from %s", peer)
	return newConn(raw, peer, l.metrics), peer, nil
}

// Close releases the listening handle.  It is safe to call more than once.
func (l *Listener) Close() error {
	err := l.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
