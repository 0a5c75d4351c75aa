// Package report renders resolved endpoints for display.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"sockdemo/internal/endpoint"
	"sockdemo/util"
)

// Address is one resolved endpoint in presentation form.
type Address struct {
	Version string `json:"version" yaml:"version"`
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
}

// Listing is the result of one resolution.
type Listing struct {
	Host      string    `json:"host" yaml:"host"`
	Service   string    `json:"service,omitempty" yaml:"service,omitempty"`
	Addresses []Address `json:"addresses" yaml:"addresses"`
}

// NewListing converts eps, in order, into a Listing.
func NewListing(host, service string, eps []endpoint.Endpoint) Listing {
	l := Listing{Host: host, Service: service, Addresses: make([]Address, 0, len(eps))}
	for _, ep := range eps {
		l.Addresses = append(l.Addresses, Address{
			Version: ep.Family.String(),
			Address: ep.Presentation(),
			Port:    ep.Port(),
		})
	}
	return l
}

// Formatter defines the interface for output formatting.
type Formatter interface {
	Format(l Listing) string
}

// Formats lists the names accepted by NewFormatter; "yml" is an alias
// for "yaml".
var Formats = []string{"text", "json", "yaml", "yml"}

// NewFormatter returns a Formatter for the given format string.
// Supported formats: "text" (default), "json", "yaml".
func NewFormatter(format string) Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{}
	case "yaml", "yml":
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter prints one address per paragraph, showip style.
type TextFormatter struct{}

func (f *TextFormatter) Format(l Listing) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\nIP addresses for %s:\n\n", util.FormatService(l.Host, l.Service))
	for _, a := range l.Addresses {
		addr := a.Address
		if a.Port != 0 {
			addr = util.FormatAddr(a.Address, a.Port)
		}
		fmt.Fprintf(&buf, " %s: %s\n\n", a.Version, addr)
	}
	return buf.String()
}

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(l Listing) string {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Sprintf("error formatting JSON: %v\n", err)
	}
	return string(b) + "\n"
}

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(l Listing) string {
	b, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Sprintf("error formatting YAML: %v\n", err)
	}
	return string(b)
}
