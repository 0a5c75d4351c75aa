// Package config defines the runtime configuration for sockdemo and
// provides helpers for parsing tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/report"
)

// Command selects which of the demo programs runs.
type Command string

const (
	CommandClient  Command = "client"
	CommandServer  Command = "server"
	CommandResolve Command = "resolve"
	CommandShowIP  Command = "showip"
)

// Commands lists every command in help order.
var Commands = []Command{CommandClient, CommandServer, CommandResolve, CommandShowIP}

// ParseCommand maps a command-line word to a Command.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == strings.ToLower(s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q (want client, server, resolve or showip)", s)
}

// Config holds every tuneable for a single sockdemo run.
type Config struct {
	Command Command

	// ── Addressing ───────────────────────────────────────────────────
	Host    string // client target, showip subject, optional server bind host
	Service string // port number or service name
	Family  endpoint.Family

	// ── Server ───────────────────────────────────────────────────────
	Backlog int
	Reply   string

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Output  string // text, json or yaml
	Verbose int
	LogFile string
	Metrics bool
	DryRun  bool
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec, if set, into the Tunnel* fields.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent for
// its Command.
func (c *Config) Validate() error {
	switch c.Command {
	case CommandClient:
		if c.Host == "" {
			return &ncerr.ConfigError{Field: "host", Message: "client requires a host",
				Hint: "sockdemo client HOST PORT"}
		}
		if c.Service == "" {
			return &ncerr.ConfigError{Field: "port", Message: "client requires a port",
				Hint: "sockdemo client HOST PORT"}
		}
	case CommandServer, CommandResolve:
		if c.Service == "" {
			return &ncerr.ConfigError{Field: "port", Message: "port number required",
				Hint: fmt.Sprintf("sockdemo %s PORT", c.Command)}
		}
	case CommandShowIP:
		if c.Host == "" {
			return &ncerr.ConfigError{Field: "host", Message: "hostname required",
				Hint: "sockdemo showip HOST"}
		}
	case "":
		return &ncerr.ConfigError{Field: "command", Message: "no command given",
			Hint: "one of client, server, resolve, showip"}
	default:
		return &ncerr.ConfigError{Field: "command", Value: c.Command, Message: "unknown command"}
	}

	if c.Command == CommandServer {
		if c.Backlog < 1 {
			return &ncerr.ConfigError{Field: "backlog", Value: c.Backlog,
				Message: "backlog must be at least 1"}
		}
		if len(c.Reply) > MaxMessageSize {
			return &ncerr.ConfigError{Field: "reply", Value: len(c.Reply),
				Message: fmt.Sprintf("reply exceeds %d bytes", MaxMessageSize)}
		}
	}

	if c.Output != "" && !slices.Contains(report.Formats, strings.ToLower(c.Output)) {
		return &ncerr.ConfigError{Field: "output", Value: c.Output,
			Message: "unsupported format", Hint: "one of " + strings.Join(report.Formats, ", ")}
	}

	if c.TunnelEnabled {
		if c.Command != CommandClient {
			return &ncerr.ConfigError{Field: "tunnel", Value: c.TunnelSpec,
				Message: "an SSH tunnel only applies to the client command"}
		}
		if c.TunnelHost == "" {
			return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required"}
		}
	}

	return nil
}
