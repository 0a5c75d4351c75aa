// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"sockdemo/config"
	"sockdemo/internal/core"
	"sockdemo/internal/endpoint"
	ncerr "sockdemo/internal/errors"
	"sockdemo/internal/metrics"
	"sockdemo/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X sockdemo/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the selected sockdemo command.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	if err := config.LoadFromEnv(cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	envVerbose := cfg.Verbose

	fs := flag.NewFlagSet("sockdemo", flag.ContinueOnError)

	// ── addressing ───────────────────────────────────────────────
	var ipv4, ipv6 bool
	fs.BoolVarP(&ipv4, "ipv4", "4", false, "Use IPv4 addresses only")
	fs.BoolVarP(&ipv6, "ipv6", "6", false, "Use IPv6 addresses only")

	// ── server ───────────────────────────────────────────────────
	fs.IntVarP(&cfg.Backlog, "backlog", "b", cfg.Backlog, "Pending-connection queue length")
	fs.StringVar(&cfg.Reply, "reply", cfg.Reply, "Reply sent to the client")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Connect through SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format for resolve/showip: text, json, yaml")
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write log messages to this file (rotated)")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "Print connection metrics as JSON to stderr on exit")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Resolve and print candidates without connecting or binding")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("sockdemo %s\n", version)
		return nil
	}

	if !fs.Changed("verbose") {
		cfg.Verbose = envVerbose
	}

	switch {
	case ipv4 && ipv6:
		return &ncerr.ConfigError{Field: "ipv4", Message: "-4 and -6 are mutually exclusive"}
	case ipv4:
		cfg.Family = endpoint.FamilyIPv4
	case ipv6:
		cfg.Family = endpoint.FamilyIPv6
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build and run ────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	logger.SetLogFile(cfg.LogFile)
	defer logger.Close()

	m := metrics.New()
	mode, err := core.Build(cfg, logger, m)
	if err != nil {
		return err
	}

	logger.Debug("running %s", cfg.Command)
	err = mode.Run(ctx)
	if err != nil {
		m.RecordError(ncerr.KindOf(err).String(), err.Error())
		logger.Verbose("%s failed: %v", cfg.Command, err)
	}

	if cfg.Metrics {
		fmt.Fprintln(os.Stderr, m.JSON())
	}
	return err
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional fills the command and its operands.  Operands left
// out may come from SOCKDEMO_HOST / SOCKDEMO_PORT instead.
func parsePositional(cfg *config.Config, remaining []string) error {
	if len(remaining) == 0 {
		return &ncerr.ConfigError{Field: "command", Message: "no command given",
			Hint: "one of client, server, resolve, showip"}
	}
	cmd, err := config.ParseCommand(remaining[0])
	if err != nil {
		return err
	}
	cfg.Command = cmd
	operands := remaining[1:]

	switch cmd {
	case config.CommandClient:
		if len(operands) > 2 {
			return fmt.Errorf("too many arguments: usage: sockdemo client HOST PORT")
		}
		if len(operands) > 0 {
			cfg.Host = operands[0]
		}
		if len(operands) > 1 {
			cfg.Service = operands[1]
		}
	case config.CommandServer, config.CommandResolve:
		if len(operands) > 1 {
			return fmt.Errorf("too many arguments: usage: sockdemo %s PORT", cmd)
		}
		if len(operands) == 1 {
			cfg.Service = operands[0]
		}
	case config.CommandShowIP:
		if len(operands) > 1 {
			return fmt.Errorf("too many arguments: usage: sockdemo showip HOST")
		}
		if len(operands) == 1 {
			cfg.Host = operands[0]
		}
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `sockdemo – single-shot socket client/server v%s

Resolve an address, open one TCP connection, exchange one message, close.

Usage:
  sockdemo [options] client HOST PORT       Send one line from stdin, print the reply
  sockdemo [options] server PORT            Accept one client, print its message, reply
  sockdemo [options] resolve PORT           Print the local addresses a server would bind
  sockdemo [options] showip HOST            Print every address of HOST

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  sockdemo server 9000                          Wait for one client on port 9000
  echo hello | sockdemo client localhost 9000   Send "hello" and print the reply
  sockdemo -6 showip example.com                IPv6 addresses only
  sockdemo -o yaml resolve http                 Wildcard candidates for port 80
  sockdemo -T admin@bastion client db 9000      Connect through an SSH gateway

Environment:
  SOCKDEMO_HOST, SOCKDEMO_PORT, SOCKDEMO_FAMILY, SOCKDEMO_BACKLOG, SOCKDEMO_REPLY,
  SOCKDEMO_OUTPUT, SOCKDEMO_TUNNEL, SOCKDEMO_SSH_KEY, SOCKDEMO_SSH_PASSWORD,
  SOCKDEMO_SSH_AGENT, SOCKDEMO_STRICT_HOSTKEY, SOCKDEMO_KNOWN_HOSTS,
  SOCKDEMO_LOG_FILE, SOCKDEMO_VERBOSE, SOCKDEMO_METRICS (flags take precedence)
`)
}
