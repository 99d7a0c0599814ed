package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// PhaseTimings collects latencies of the named phases of one request.
// A nil *PhaseTimings is valid and records nothing.
type PhaseTimings struct {
	mu sync.RWMutex

	TotalStartTime time.Time `json:"-"`
	TotalLatencyMs float64   `json:"totalLatencyMs"`

	starts map[string]time.Time
	order  []string

	// Timings holds the latency per phase in milliseconds
	Timings map[string]float64 `json:"timings"`
}

// NewPhaseTimings creates a collector whose total starts now.
func NewPhaseTimings() *PhaseTimings {
	return &PhaseTimings{
		TotalStartTime: time.Now(),
		starts:         make(map[string]time.Time),
		Timings:        make(map[string]float64),
	}
}

// Start marks the beginning of a phase.
func (m *PhaseTimings) Start(phase string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts[phase] = time.Now()
}

// End marks the end of a phase started with Start.
func (m *PhaseTimings) End(phase string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	start, ok := m.starts[phase]
	if !ok {
		return
	}
	delete(m.starts, phase)

	if _, seen := m.Timings[phase]; !seen {
		m.order = append(m.order, phase)
	}
	m.Timings[phase] += float64(time.Since(start).Microseconds()) / 1000.0
}

// Finalize calculates the total latency.
func (m *PhaseTimings) Finalize() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.TotalStartTime.IsZero() {
		m.TotalLatencyMs = float64(time.Since(m.TotalStartTime).Microseconds()) / 1000.0
	}
}

// Get returns the recorded latency of a phase in milliseconds.
func (m *PhaseTimings) Get(phase string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.Timings[phase]
	return v, ok
}

// Phases returns the finished phases in the order they first ended.
func (m *PhaseTimings) Phases() []string {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// GetHeaders returns HTTP headers with latency metrics
func (m *PhaseTimings) GetHeaders() map[string]string {
	headers := make(map[string]string)
	if m == nil {
		return headers
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	headers["X-Latency-Total-Ms"] = formatFloat(m.TotalLatencyMs)
	for _, phase := range m.order {
		headers["X-Latency-"+headerName(phase)+"-Ms"] = formatFloat(m.Timings[phase])
	}
	return headers
}

func headerName(phase string) string {
	parts := strings.FieldsFunc(phase, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
