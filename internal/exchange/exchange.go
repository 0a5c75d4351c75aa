// Package exchange implements the single request/response round over an
// established connection: the client writes one message and reads one
// reply, the server reads one message and writes one reply.  There is
// no framing; a message is whatever a single read returns, capped at
// MaxMessageSize bytes.
package exchange

import (
	"bufio"
	"errors"
	"io"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
)

// MaxMessageSize is the largest payload a single read or write carries.
const MaxMessageSize = 255

// Message is a bounded byte payload.  The zero value is the empty message.
type Message struct {
	buf [MaxMessageSize]byte
	n   int
}

// NewMessage copies b into a Message.  It fails with ErrMessageTooLarge
// when b exceeds MaxMessageSize.
func NewMessage(b []byte) (Message, error) {
	var m Message
	if len(b) > MaxMessageSize {
		return m, ncerr.ErrMessageTooLarge
	}
	m.n = copy(m.buf[:], b)
	return m, nil
}

func (m Message) Bytes() []byte  { return m.buf[:m.n] }
func (m Message) Len() int       { return m.n }
func (m Message) String() string { return string(m.buf[:m.n]) }

// ReadLine reads one line, newline included, from r.  At most
// MaxMessageSize bytes are taken; a longer line is cut at the cap.
// End of input with nothing read yields the empty message.
//
// r is wrapped in its own buffer, so bytes past the line may be
// consumed from r.
func ReadLine(r io.Reader) (Message, error) {
	br := bufio.NewReaderSize(r, MaxMessageSize)
	line, err := br.ReadSlice('\n')
	switch {
	case err == nil, errors.Is(err, bufio.ErrBufferFull), errors.Is(err, io.EOF):
	default:
		return Message{}, ncerr.Wrap(ncerr.KindIO, "read", "input", err)
	}
	return NewMessage(line)
}

// Request sends msg on conn and returns the reply from exactly one
// read.  A short reply is returned as-is.  An empty msg half-closes the
// write side so the peer's read sees end of stream.
func Request(conn io.ReadWriter, msg Message) (Message, error) {
	if msg.Len() == 0 {
		if cw, ok := conn.(interface{ CloseWrite() error }); ok {
			if err := cw.CloseWrite(); err != nil {
				return Message{}, ncerr.Wrap(ncerr.KindIO, "write", peerOf(conn), err)
			}
		}
	} else if _, err := conn.Write(msg.Bytes()); err != nil {
		return Message{}, ncerr.Wrap(ncerr.KindIO, "write", peerOf(conn), err)
	}

	return readOnce(conn)
}

// Respond reads exactly one message from conn, hands it to onMessage,
// then writes reply.  A peer that closes without sending anything
// produces an empty message and still gets the reply.
func Respond(conn io.ReadWriter, reply Message, onMessage func(Message)) (Message, error) {
	msg, err := readOnce(conn)
	if err != nil {
		return Message{}, err
	}
	if onMessage != nil {
		onMessage(msg)
	}

	if _, err := conn.Write(reply.Bytes()); err != nil {
		return msg, ncerr.Wrap(ncerr.KindIO, "write", peerOf(conn), err)
	}
	return msg, nil
}

func readOnce(conn io.Reader) (Message, error) {
	var m Message
	n, err := conn.Read(m.buf[:])
	m.n = n
	if err != nil && !errors.Is(err, io.EOF) {
		return Message{}, ncerr.Wrap(ncerr.KindIO, "read", peerOf(conn), err)
	}
	return m, nil
}

// peerOf returns the remote address of conn for error messages, when
// conn knows it.
func peerOf(conn interface{}) string {
	if p, ok := conn.(interface{ Peer() endpoint.Endpoint }); ok && p.Peer().IsValid() {
		return p.Peer().String()
	}
	return ""
}
