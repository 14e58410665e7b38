package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for identity resolution.
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Lookups     *prometheus.CounterVec
	Retries     prometheus.Counter
}

// New creates and registers all resolver metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "paygate_resolution_cache_hits_total",
			Help: "Resolution cache hits, including cached not-found entries",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "paygate_resolution_cache_misses_total",
			Help: "Resolution cache misses",
		}),
		Lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "paygate_resolution_lookups_total",
			Help: "External identity lookups by outcome",
		}, []string{"outcome"}),
		Retries: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "paygate_resolution_retries_total",
			Help: "Retried external identity lookup attempts",
		}),
	}
}
