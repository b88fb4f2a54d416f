package authz

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil when the engine runs without a registerer; every method is
// then a no-op.
type metrics struct {
	decisions     *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		decisions: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization outcomes by decision and reason.",
		}, []string{"decision", "reason"})),
		cacheRequests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_cache_requests_total",
			Help: "Decision cache lookups by result (hit, miss, stale, error).",
		}, []string{"result"})),
		cacheErrors: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_cache_errors_total",
			Help: "Decision cache backend failures by operation.",
		}, []string{"op"})),
		invalidations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_invalidation_failures_total",
			Help: "Cache invalidations that failed after a successful mutation.",
		}, []string{"kind"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Time to reach a decision, by source (cache or store).",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"})),
	}
}

// register reuses an already registered collector of the same shape so
// several engines can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) decision(decision, reason string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(decision, reason).Inc()
}

func (m *metrics) cacheRequest(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

func (m *metrics) cacheError(op string) {
	if m == nil {
		return
	}
	m.cacheErrors.WithLabelValues(op).Inc()
}

func (m *metrics) invalidationFailed(kind string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(kind).Inc()
}

func (m *metrics) observe(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(source).Observe(elapsed.Seconds())
}
