// Package errors provides domain-specific error types for sockdemo.
//
// Every failure on the resolve → establish → exchange path is reported
// as a *NetworkError tagged with a Kind, so the top-level command can
// pick an exit code and print a single human-readable line without the
// core ever terminating the process itself.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrClosed          = errors.New("use of closed connection")
	ErrNoAddresses     = errors.New("no addresses found")
	ErrNoCandidates    = errors.New("no candidate endpoints")
	ErrMessageTooLarge = errors.New("message exceeds 255 bytes")
)

// ── Kinds ────────────────────────────────────────────────────────────

// Kind classifies where on the socket lifecycle an error occurred.
type Kind int

const (
	KindUnknown Kind = iota
	KindResolution
	KindHandle
	KindBind
	KindListen
	KindConnect
	KindNoReachable
	KindAccept
	KindIO
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindResolution:  "resolution",
	KindHandle:      "handle",
	KindBind:        "bind",
	KindListen:      "listen",
	KindConnect:     "connect",
	KindNoReachable: "no-reachable-candidate",
	KindAccept:      "accept",
	KindIO:          "io",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Kind Kind
	Op   string // "resolve", "socket", "bind", "listen", "dial", "accept", "read", "write"
	Addr string // network address involved, may be empty
	Err  error  // underlying error
}

func (e *NetworkError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with gateway context.
type SSHError struct {
	Op   string // "auth", "hostkey", "handshake", "dial"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // flag name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError of the given kind.
func Wrap(kind Kind, op, addr string, err error) *NetworkError {
	return &NetworkError{Kind: kind, Op: op, Addr: addr, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// KindOf returns the Kind of the outermost NetworkError in err's chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit status: 0 for nil or an
// interrupted run, 2 for a resolution failure, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 0
	case KindOf(err) == KindResolution:
		return 2
	default:
		return 1
	}
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
