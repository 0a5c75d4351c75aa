package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "sockdemo/internal/errors"
	"sockdemo/util"
)

// SSHConfig holds everything needed to reach an SSH gateway.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

func (c *SSHConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SSHDialer forwards each Dial through an SSH gateway, so candidates
// are reached from the gateway's side of the network.  The SSH session
// is opened lazily on the first Dial and torn down on Close.
type SSHDialer struct {
	config *SSHConfig
	logger *util.Logger

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHDialer creates a dialer for the gateway described by cfg.
func NewSSHDialer(cfg *SSHConfig, logger *util.Logger) *SSHDialer {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &SSHDialer{config: cfg, logger: logger}
}

// connect performs the SSH handshake once.
func (d *SSHDialer) connect(ctx context.Context) (*ssh.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return d.client, nil
	}

	authMethods, err := BuildAuthMethods(d.config)
	if err != nil {
		return nil, ncerr.WrapSSH("auth", d.config.Host, d.config.Port, err)
	}
	hkCallback, err := hostKeyCallback(d.config)
	if err != nil {
		return nil, ncerr.WrapSSH("hostkey", d.config.Host, d.config.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            d.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         d.config.ConnTimeout,
	}

	addr := d.config.addr()
	d.logger.Verbose("establishing SSH session to %s@%s", d.config.User, addr)

	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, ncerr.WrapSSH("dial", d.config.Host, d.config.Port, err)
	}

	// NewClientConn ignores sshCfg.Timeout, so bound the handshake with a
	// deadline and let ctx abort it.
	tcpConn.SetDeadline(time.Now().Add(d.config.ConnTimeout)) //nolint:errcheck
	stop := context.AfterFunc(ctx, func() { tcpConn.Close() })

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if !stop() {
		if err == nil {
			sshConn.Close()
		}
		err = ctx.Err()
	}
	if err != nil {
		tcpConn.Close()
		return nil, ncerr.WrapSSH("handshake", d.config.Host, d.config.Port, err)
	}
	tcpConn.SetDeadline(time.Time{}) //nolint:errcheck

	d.client = ssh.NewClient(sshConn, chans, reqs)
	d.logger.Verbose("SSH session established")
	return d.client, nil
}

// Dial opens a forwarded connection to address from the gateway.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	client, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("ssh: forwarding %s %s", network, address)
	conn, err := client.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("via %s: %w", d.config.addr(), err)
	}
	return conn, nil
}

// Close tears down the SSH session, if one was opened.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}
