package util

import (
	"testing"
)

func TestFormatAddr(t *testing.T) {
	if got := FormatAddr("1.2.3.4", 22); got != "1.2.3.4:22" {
		t.Errorf("got %q, want %q", got, "1.2.3.4:22")
	}
	if got := FormatAddr("::1", 443); got != "[::1]:443" {
		t.Errorf("got %q, want %q", got, "[::1]:443")
	}
}

func TestFormatService(t *testing.T) {
	tests := []struct {
		host, service, want string
	}{
		{"example.com", "http", "example.com:http"},
		{"", "8080", "*:8080"},
		{"example.com", "", "example.com"},
	}
	for _, tt := range tests {
		if got := FormatService(tt.host, tt.service); got != tt.want {
			t.Errorf("FormatService(%q,%q) = %q, want %q", tt.host, tt.service, got, tt.want)
		}
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if port < 1 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
}
