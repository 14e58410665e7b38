package distribution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes distribution counters on the shared registry.
type Metrics struct {
	Dispatched      prometheus.Counter
	DispatchRetries prometheus.Counter
	DroppedByReason *prometheus.CounterVec
	Transfers       *prometheus.CounterVec
}

// NewMetrics registers the distribution metric family.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Dispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "paygate",
			Subsystem: "distribution",
			Name:      "dispatched_total",
			Help:      "Batches handed to the transfer backend.",
		}),
		DispatchRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "paygate",
			Subsystem: "distribution",
			Name:      "dispatch_retries_total",
			Help:      "Dispatch attempts repeated after a transient chain error.",
		}),
		DroppedByReason: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paygate",
			Subsystem: "distribution",
			Name:      "participants_dropped_total",
			Help:      "Participants excluded from a batch, by reason.",
		}, []string{"reason"}),
		Transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paygate",
			Subsystem: "distribution",
			Name:      "transfers_total",
			Help:      "Individual transfer outcomes reported by the backend.",
		}, []string{"outcome"}),
	}
}
