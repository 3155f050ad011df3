package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DecisionsTotal   *prometheus.CounterVec
	DecisionDuration prometheus.Histogram
	SecurityHits     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tollgate_decisions_total",
			Help: "Total number of toll decisions by terminal status",
		}, []string{"status"}),
		DecisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tollgate_decision_duration_seconds",
			Help:    "Latency of one full toll decision",
			Buckets: prometheus.DefBuckets,
		}),
		SecurityHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tollgate_security_hits_total",
			Help: "Total number of stolen/blacklisted registry hits",
		}),
	}
}

func (m *Metrics) ObserveDecision(status string, seconds float64) {
	m.DecisionsTotal.WithLabelValues(status).Inc()
	m.DecisionDuration.Observe(seconds)
}

func (m *Metrics) IncrementSecurityHits() {
	m.SecurityHits.Inc()
}
