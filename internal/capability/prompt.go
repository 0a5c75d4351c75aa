package capability

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"sockdemo/internal/exchange"
	"sockdemo/internal/session"
)

// DefaultPrompt is shown before reading the message from a terminal.
const DefaultPrompt = "Please enter the message: "

// Prompt is the client side: read one line from the session's Stdin,
// send it, and print the server's reply.
type Prompt struct {
	// Text is printed before reading when Stdin is a terminal.  Empty
	// means DefaultPrompt.
	Text string
}

// Handle performs one request/response round on sess.
func (p *Prompt) Handle(ctx context.Context, sess *session.Session) error {
	stop := sess.CloseOnCancel(ctx)
	defer stop()

	if isTerminal(sess.Stdin) {
		text := p.Text
		if text == "" {
			text = DefaultPrompt
		}
		fmt.Fprint(sess.Stdout, text)
	}

	msg, err := exchange.ReadLine(sess.Stdin)
	if err != nil {
		return err
	}
	sess.Logger.Debug("sending %d bytes to %s", msg.Len(), sess.Peer())

	reply, err := exchange.Request(sess.Conn, msg)
	if err != nil {
		return interrupted(ctx, "request", err)
	}
	sess.Logger.Debug("received %d bytes", reply.Len())

	fmt.Fprintf(sess.Stdout, "Response from server:\n%s\n", reply)
	return nil
}

func isTerminal(r interface{}) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
