// Package session represents a single connection lifecycle, binding a
// network connection with I/O endpoints and shared context.
//
// Capabilities read the local message from the session's Stdin and
// print to its Stdout, so tests can drive them with buffers instead of
// the terminal.
package session

import (
	"context"
	"io"

	"sockdemo/internal/endpoint"
	"sockdemo/util"
)

// Conn is the connection a session runs over.  *transport.Conn
// implements it.
type Conn interface {
	io.ReadWriteCloser
	Peer() endpoint.Endpoint
}

// Session encapsulates the runtime context for a single connection.
type Session struct {
	Conn   Conn
	Stdin  io.Reader
	Stdout io.Writer
	Logger *util.Logger
}

// New creates a Session bound to the given connection and I/O pair.
func New(conn Conn, stdin io.Reader, stdout io.Writer, logger *util.Logger) *Session {
	return &Session{
		Conn:   conn,
		Stdin:  stdin,
		Stdout: stdout,
		Logger: logger,
	}
}

// Peer returns the remote endpoint of the session's connection.
func (s *Session) Peer() endpoint.Endpoint { return s.Conn.Peer() }

// CloseOnCancel closes the connection when ctx is cancelled, which
// unblocks a pending read or write.  The returned func detaches the
// hook and must be called once the blocking work is done.
func (s *Session) CloseOnCancel(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() { s.Conn.Close() })
}
