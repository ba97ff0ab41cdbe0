package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

// Metrics records dispatcher outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mvcore",
			Name:      "requests_total",
			Help:      "Requests handled by the dispatcher, by verb, route pattern and outcome.",
		}, []string{"verb", "route", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mvcore",
			Name:      "request_duration_seconds",
			Help:      "Time spent resolving, invoking and rendering a request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"verb", "route"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(verb, route, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(verb, route, outcome).Inc()
	m.duration.WithLabelValues(verb, route).Observe(time.Since(started).Seconds())
}
