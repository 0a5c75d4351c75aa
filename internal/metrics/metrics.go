// Package metrics tracks runtime statistics of a sockdemo run on a
// private Prometheus registry.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "sockdemo"

// Collector tracks runtime metrics for one run.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	registry *prometheus.Registry

	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	bytesIn           prometheus.Counter
	bytesOut          prometheus.Counter
	candidatesTried   prometheus.Counter
	candidatesFailed  prometheus.Counter
	errorsTotal       *prometheus.CounterVec

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a collector with its own registry and the start time set
// to now.
func New() *Collector {
	c := &Collector{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Connections currently open.",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections established or accepted.",
		}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Bytes read from the network.",
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the network.",
		}),
		candidatesTried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_tried_total",
			Help:      "Resolved endpoints a connection or bind was attempted on.",
		}),
		candidatesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_failed_total",
			Help:      "Resolved endpoints whose attempt failed.",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by kind.",
		}, []string{"kind"}),
	}
	c.registry.MustRegister(
		c.connectionsActive,
		c.connectionsTotal,
		c.bytesIn,
		c.bytesOut,
		c.candidatesTried,
		c.candidatesFailed,
		c.errorsTotal,
	)
	return c
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Inc()
	c.connectionsTotal.Inc()
}

// ConnectionClosed decrements the active connection gauge.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Dec()
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return read(c.connectionsActive)
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return read(c.connectionsTotal)
}

// ── Candidate metrics ────────────────────────────────────────────────

// CandidateTried records an attempt on one resolved endpoint.
func (c *Collector) CandidateTried(ok bool) {
	if c == nil {
		return
	}
	c.candidatesTried.Inc()
	if !ok {
		c.candidatesFailed.Inc()
	}
}

// CandidatesTried returns how many endpoints were attempted.
func (c *Collector) CandidatesTried() int64 {
	if c == nil {
		return 0
	}
	return read(c.candidatesTried)
}

// CandidatesFailed returns how many endpoint attempts failed.
func (c *Collector) CandidatesFailed() int64 {
	if c == nil {
		return 0
	}
	return read(c.candidatesFailed)
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n bytes read from the network.
func (c *Collector) BytesReceived(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesIn.Add(float64(n))
}

// BytesSent records n bytes written to the network.
func (c *Collector) BytesSent(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesOut.Add(float64(n))
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return read(c.bytesIn)
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return read(c.bytesOut)
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter for kind and stores msg.
func (c *Collector) RecordError(kind, msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.WithLabelValues(kind).Inc()
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	var total int64
	for _, n := range c.errorsByKind() {
		total += n
	}
	return total
}

func (c *Collector) errorsByKind() map[string]int64 {
	out := map[string]int64{}
	families, err := c.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		if mf.GetName() != namespace+"_errors_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" {
					out[lp.GetValue()] += int64(m.GetCounter().GetValue())
				}
			}
		}
	}
	return out
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string           `json:"uptime"`
	ConnectionsActive int64            `json:"connections_active"`
	ConnectionsTotal  int64            `json:"connections_total"`
	BytesIn           int64            `json:"bytes_in"`
	BytesOut          int64            `json:"bytes_out"`
	CandidatesTried   int64            `json:"candidates_tried"`
	CandidatesFailed  int64            `json:"candidates_failed"`
	Errors            map[string]int64 `json:"errors,omitempty"`
	LastError         string           `json:"last_error,omitempty"`
	LastErrorMessage  string           `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Millisecond).String(),
		ConnectionsActive: c.ActiveConnections(),
		ConnectionsTotal:  c.TotalConnections(),
		BytesIn:           c.TotalBytesIn(),
		BytesOut:          c.TotalBytesOut(),
		CandidatesTried:   c.CandidatesTried(),
		CandidatesFailed:  c.CandidatesFailed(),
	}
	if errs := c.errorsByKind(); len(errs) > 0 {
		s.Errors = errs
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}

// read extracts the current value of a single counter or gauge.
func read(m prometheus.Metric) int64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return 0
	}
	if g := out.GetGauge(); g != nil {
		return int64(g.GetValue())
	}
	return int64(out.GetCounter().GetValue())
}
