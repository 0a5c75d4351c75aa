package config

import (
	"time"

	"sockdemo/internal/exchange"
)

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultBacklog is the pending-connection queue length passed to
	// listen(2).
	DefaultBacklog = 5

	// MaxMessageSize caps every message and the server reply.
	MaxMessageSize = exchange.MaxMessageSize

	// DefaultReply is what the server answers every client with.
	DefaultReply = "I got your message!"

	// DefaultOutputFormat is used by resolve and showip.
	DefaultOutputFormat = "text"

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout bounds the SSH gateway handshake only; the
	// socket operations themselves never time out.
	DefaultConnTimeout = 30 * time.Second

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "SOCKDEMO"
)

// Default returns a Config populated with the defaults above.
func Default() *Config {
	return &Config{
		Backlog: DefaultBacklog,
		Reply:   DefaultReply,
		Output:  DefaultOutputFormat,
	}
}
