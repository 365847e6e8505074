package compose

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Composition outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeIncompatible = "incompatible"
	OutcomeError        = "error"
)

// Metrics holds the composer's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	compositions     *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	versionConflicts *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		compositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forgekit_compositions_total",
				Help: "Number of composition requests by target and outcome.",
			},
			[]string{"target", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forgekit_composition_duration_seconds",
				Help:    "Time taken to compose a manifest.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		),
		versionConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forgekit_version_conflicts_total",
				Help: "Number of package version conflicts resolved during composition.",
			},
			[]string{"target"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forgekit_composition_cache_lookups_total",
				Help: "Number of result cache lookups by result (hit, miss, error).",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.compositions, m.duration, m.versionConflicts, m.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(target, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.compositions.WithLabelValues(target, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.duration.WithLabelValues(target).Observe(d.Seconds())
	}
}

func (m *Metrics) conflicts(target string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.versionConflicts.WithLabelValues(target).Add(float64(n))
}

func (m *Metrics) cacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
