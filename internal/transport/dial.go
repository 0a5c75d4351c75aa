package transport

import (
	"context"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/metrics"
	"sockdemo/util"
)

// DialFirst tries each candidate in order and returns the first
// connection that succeeds together with the candidate used.  A failed
// attempt is logged and the next candidate is tried; when every
// candidate fails the result is a KindNoReachable error wrapping each
// attempt's failure.
func DialFirst(ctx context.Context, d Dialer, candidates []endpoint.Endpoint, logger *util.Logger, m *metrics.Collector) (*Conn, endpoint.Endpoint, error) {
	if len(candidates) == 0 {
		return nil, endpoint.Endpoint{}, ncerr.Wrap(ncerr.KindNoReachable, "dial", "", ncerr.ErrNoCandidates)
	}

	var errs []error
	for i, ep := range candidates {
		logger.Verbose("trying %s (%d/%d)", ep, i+1, len(candidates))

		raw, err := d.Dial(ctx, ep.Network(), ep.String())
		if err != nil {
			m.CandidateTried(false)
			logger.Verbose("connect %s failed: %v", ep, err)
			errs = append(errs, ncerr.Wrap(ncerr.KindConnect, "dial", ep.String(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		m.CandidateTried(true)
		return newConn(raw, ep, m), ep, nil
	}

	addr := candidates[0].String()
	if len(candidates) > 1 {
		addr += " and other candidates"
	}
	return nil, endpoint.Endpoint{}, ncerr.Wrap(ncerr.KindNoReachable, "connect", addr, ncerr.Join(errs...))
}
