// Package core is the orchestration layer.  It composes resolution,
// transports and capabilities into complete operational modes and
// provides a builder that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	resolve  →  transport  →  exchange  →  capability  →  core  →  cmd (CLI)
//
// Every mode follows the same lifecycle: resolve candidates, establish
// one connection (client) or one listener (server), run a single
// exchange, and release every handle before Run returns.
package core

import (
	"context"
	"io"
	"os"
)

// Mode represents a complete operational mode of sockdemo (client,
// server, resolve, or showip).  Each mode owns its full lifecycle from
// resolution to teardown.
type Mode interface {
	Run(ctx context.Context) error
}

// stdio holds the local I/O pair a mode talks to.  Nil fields default
// to os.Stdin/os.Stdout; tests override them for deterministic I/O.
type stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func (s *stdio) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

func (s *stdio) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}
