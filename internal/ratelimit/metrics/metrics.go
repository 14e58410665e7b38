package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the ratelimit subsystem.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// New creates and registers all ratelimit metrics on the given registerer.
// Pass prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "paygate_ratelimit_decisions_total",
			Help: "Rate limit admission decisions by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

// RecordDecision counts one admission decision.
func (m *Metrics) RecordDecision(kind string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.Decisions.WithLabelValues(kind, outcome).Inc()
}
