// Package capability defines what happens over an established
// connection.  Each Capability runs one side of the single-shot
// exchange and operates on a Session rather than a raw connection,
// which keeps capabilities testable and decoupled from transport
// details.
package capability

import (
	"context"
	"fmt"

	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/session"
)

// Capability handles a single connection according to a specific
// behaviour.  Implementations are Prompt (client side) and Acknowledge
// (server side).
type Capability interface {
	// Handle runs the capability against the given session.
	// It blocks until the exchange is done or the context is
	// cancelled.
	Handle(ctx context.Context, sess *session.Session) error
}

// interrupted prefers the context error over the I/O error it caused.
func interrupted(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil && ncerr.KindOf(err) == ncerr.KindIO {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	return err
}
