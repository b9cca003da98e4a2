package models

import "fmt"

// Probe type names as they appear in workload manifests and metric labels
const (
	ProbeTypeLiveness  = "livenessProbe"
	ProbeTypeReadiness = "readinessProbe"
	ProbeTypeStartup   = "startupProbe"
)

// ProbeKey identifies a single probe series across both pipelines
type ProbeKey struct {
	Namespace string
	Pod       string
	Container string
	ProbeType string
}

func (k ProbeKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Namespace, k.Pod, k.Container, k.ProbeType)
}

// ProbeMetrics holds the result of one metrics query, keyed by probe.
// Insertion order is preserved so downstream sorting stays deterministic
// for equal values.
type ProbeMetrics struct {
	keys   []ProbeKey
	values map[ProbeKey]float64
}

// NewProbeMetrics creates an empty result set
func NewProbeMetrics() *ProbeMetrics {
	return &ProbeMetrics{
		values: make(map[ProbeKey]float64),
	}
}

// Set stores a value for a probe. A key keeps its original position
// when set again.
func (m *ProbeMetrics) Set(key ProbeKey, value float64) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for a probe and whether it was present
func (m *ProbeMetrics) Get(key ProbeKey) (float64, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns probe keys in insertion order
func (m *ProbeMetrics) Keys() []ProbeKey {
	return m.keys
}

// Len returns the number of probes in the result set
func (m *ProbeMetrics) Len() int {
	return len(m.keys)
}
