package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics observes cache behaviour per resource class. A nil *Metrics is a
// valid no-op receiver so tests can skip registration.
type Metrics struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	degraded *prometheus.CounterVec
}

// NewMetrics registers cache counters on reg (DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_cache_hits_total",
			Help: "Number of cache hits per resource class.",
		}, []string{"class"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_cache_misses_total",
			Help: "Number of cache misses per resource class.",
		}, []string{"class"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_cache_degraded_total",
			Help: "Number of reads served uncached because the cache store failed.",
		}, []string{"class"}),
	}
	reg.MustRegister(m.hits, m.misses, m.degraded)
	return m
}

// Hit records a cache hit for class.
func (m *Metrics) Hit(class string) {
	if m != nil {
		m.hits.WithLabelValues(class).Inc()
	}
}

// Miss records a cache miss for class.
func (m *Metrics) Miss(class string) {
	if m != nil {
		m.misses.WithLabelValues(class).Inc()
	}
}

// FallThrough records a degraded, uncached read for class.
func (m *Metrics) FallThrough(class string) {
	if m != nil {
		m.degraded.WithLabelValues(class).Inc()
	}
}
