package core

import (
	"fmt"

	"sockdemo/config"
	"sockdemo/internal/capability"
	"sockdemo/internal/metrics"
	"sockdemo/internal/report"
	"sockdemo/internal/resolve"
	"sockdemo/internal/transport"
	"sockdemo/util"
)

// Build constructs the appropriate Mode from the given configuration.
// This is the single dispatch point between the CLI and the modes.
func Build(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	r := resolve.New(logger)

	if cfg.DryRun && (cfg.Command == config.CommandClient || cfg.Command == config.CommandServer) {
		return buildPlan(cfg, r, logger), nil
	}

	switch cfg.Command {
	case config.CommandClient:
		return buildConnect(cfg, r, logger, m), nil
	case config.CommandServer:
		return buildListen(cfg, r, logger, m)
	case config.CommandResolve:
		return &ResolveMode{
			Resolver:  r,
			Formatter: report.NewFormatter(cfg.Output),
			Host:      cfg.Host,
			Service:   cfg.Service,
			Family:    cfg.Family,
			Passive:   true,
			Logger:    logger,
		}, nil
	case config.CommandShowIP:
		return &LookupMode{
			Resolver:  r,
			Formatter: report.NewFormatter(cfg.Output),
			Host:      cfg.Host,
			Family:    cfg.Family,
			Logger:    logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildConnect(cfg *config.Config, r *resolve.Resolver, logger *util.Logger, m *metrics.Collector) Mode {
	if cfg.TunnelEnabled {
		logger.Verbose("candidates for %s are resolved locally and dialled via %s",
			cfg.Host, cfg.TunnelHost)
	}
	return &ConnectMode{
		Resolver:   r,
		Dialer:     buildDialer(cfg, logger),
		Capability: &capability.Prompt{},
		Host:       cfg.Host,
		Service:    cfg.Service,
		Family:     cfg.Family,
		Logger:     logger,
		Metrics:    m,
	}
}

func buildListen(cfg *config.Config, r *resolve.Resolver, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	ack, err := capability.NewAcknowledge(cfg.Reply)
	if err != nil {
		return nil, err
	}
	backlog := cfg.Backlog
	if backlog == 0 {
		backlog = config.DefaultBacklog
	}
	return &ListenMode{
		Resolver:   r,
		Capability: ack,
		Host:       cfg.Host,
		Service:    cfg.Service,
		Family:     cfg.Family,
		Backlog:    backlog,
		Logger:     logger,
		Metrics:    m,
	}, nil
}

// buildPlan resolves what client or server would use and prints it
// without touching the network beyond name lookup.
func buildPlan(cfg *config.Config, r *resolve.Resolver, logger *util.Logger) Mode {
	return &ResolveMode{
		Resolver:  r,
		Formatter: report.NewFormatter(cfg.Output),
		Host:      cfg.Host,
		Service:   cfg.Service,
		Family:    cfg.Family,
		Passive:   cfg.Command == config.CommandServer,
		Logger:    logger,
	}
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&transport.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   config.DefaultConnTimeout,
		}, logger)
	}
	return &transport.TCPDialer{}
}
