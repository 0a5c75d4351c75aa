package capability

import (
	"context"
	"fmt"

	"sockdemo/internal/exchange"
	"sockdemo/internal/session"
)

// Acknowledge is the server side: read one message, print it, and
// answer with a fixed reply.
type Acknowledge struct {
	Reply exchange.Message
}

// NewAcknowledge builds an Acknowledge that answers with reply.
func NewAcknowledge(reply string) (*Acknowledge, error) {
	m, err := exchange.NewMessage([]byte(reply))
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	return &Acknowledge{Reply: m}, nil
}

// Handle performs one receive/acknowledge round on sess.
func (a *Acknowledge) Handle(ctx context.Context, sess *session.Session) error {
	stop := sess.CloseOnCancel(ctx)
	defer stop()

	msg, err := exchange.Respond(sess.Conn, a.Reply, func(m exchange.Message) {
		fmt.Fprintf(sess.Stdout, "Here is the message: %s", m)
	})
	if err != nil {
		return interrupted(ctx, "respond", err)
	}
	sess.Logger.Debug("received %d bytes from %s, replied with %d", msg.Len(), sess.Peer(), a.Reply.Len())
	return nil
}
