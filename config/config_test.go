package config

import (
	"testing"
)

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestApplyTunnelSpec(t *testing.T) {
	cfg := &Config{TunnelSpec: "ops@jump:2200"}
	if err := cfg.ApplyTunnelSpec(); err != nil {
		t.Fatal(err)
	}
	if !cfg.TunnelEnabled || cfg.TunnelUser != "ops" || cfg.TunnelHost != "jump" || cfg.TunnelPort != 2200 {
		t.Errorf("got %+v", cfg)
	}

	empty := &Config{}
	if err := empty.ApplyTunnelSpec(); err != nil || empty.TunnelEnabled {
		t.Errorf("empty spec: err=%v enabled=%v", err, empty.TunnelEnabled)
	}
}

// ── ParseCommand ─────────────────────────────────────────────────────

func TestParseCommand(t *testing.T) {
	for _, c := range Commands {
		got, err := ParseCommand(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCommand(%q) = %q, %v", c, got, err)
		}
	}
	if got, _ := ParseCommand("SERVER"); got != CommandServer {
		t.Errorf("case-insensitive match failed: %q", got)
	}
	if _, err := ParseCommand("scan"); err == nil {
		t.Error("expected error for unknown command")
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"client", Config{Command: CommandClient, Host: "localhost", Service: "9000"}},
		{"server", Config{Command: CommandServer, Service: "9000", Backlog: 5, Reply: DefaultReply}},
		{"resolve", Config{Command: CommandResolve, Service: "http", Output: "json"}},
		{"showip", Config{Command: CommandShowIP, Host: "example.com", Output: "yaml"}},
		{"client via tunnel", Config{Command: CommandClient, Host: "db", Service: "5432",
			TunnelEnabled: true, TunnelHost: "gw", TunnelPort: 22}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backlog != 5 || cfg.Reply != "I got your message!" || cfg.Output != "text" {
		t.Errorf("Default() = %+v", cfg)
	}
}
