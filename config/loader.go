package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags and positional arguments  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"strings"

	"github.com/spf13/viper"

	"sockdemo/internal/endpoint"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the SOCKDEMO_ prefix.  Boolean values
// accept the strconv.ParseBool forms ("1", "t", "true", ...).  Empty
// variables are ignored.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) error {
	v := newEnv()

	if v.IsSet("host") {
		cfg.Host = v.GetString("host")
	}
	if v.IsSet("port") {
		cfg.Service = v.GetString("port")
	}
	if v.IsSet("family") {
		f, err := endpoint.ParseFamily(v.GetString("family"))
		if err != nil {
			return err
		}
		cfg.Family = f
	}

	// Server
	if n := v.GetInt("backlog"); n > 0 {
		cfg.Backlog = n
	}
	if v.IsSet("reply") {
		cfg.Reply = v.GetString("reply")
	}

	// SSH tunnel
	if v.IsSet("tunnel") {
		cfg.TunnelSpec = v.GetString("tunnel")
	}
	if v.IsSet("ssh_key") {
		cfg.SSHKeyPath = v.GetString("ssh_key")
	}
	if v.GetBool("ssh_password") {
		cfg.SSHPassword = true
	}
	if v.GetBool("ssh_agent") {
		cfg.UseSSHAgent = true
	}
	if v.GetBool("strict_hostkey") {
		cfg.StrictHostKey = true
	}
	if v.IsSet("known_hosts") {
		cfg.KnownHostsPath = v.GetString("known_hosts")
	}

	// Output
	if v.IsSet("output") {
		cfg.Output = strings.ToLower(v.GetString("output"))
	}
	if n := v.GetInt("verbose"); n > 0 {
		cfg.Verbose = n
	}
	if v.IsSet("log_file") {
		cfg.LogFile = v.GetString("log_file")
	}
	if v.GetBool("metrics") {
		cfg.Metrics = true
	}
	return nil
}

// newEnv returns a viper instance that only consults SOCKDEMO_*
// environment variables; no config file is ever read.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}
