package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics recorded by the SDK's backend
// connections. A nil *Collector is valid and records nothing, so
// instrumentation stays opt-in.
type Collector struct {
	apiRequestDuration *prometheus.HistogramVec
	apiRequestRetries  *prometheus.CounterVec
	dbQueryDuration    *prometheus.HistogramVec
}

// NewCollector creates and registers the SDK metrics. Pass nil to
// register on the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		apiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptlane_api_request_duration_seconds",
				Help:    "Duration of PromptLane API requests",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "resource", "status"},
		),
		apiRequestRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptlane_api_request_retries_total",
				Help: "Total number of retried PromptLane API requests",
			},
			[]string{"method", "resource"},
		),
		dbQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptlane_db_query_duration_seconds",
				Help:    "Duration of direct database queries",
				Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"table", "operation"},
		),
	}
}

// ObserveRequest records one completed API request.
func (c *Collector) ObserveRequest(method, resource, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.apiRequestDuration.WithLabelValues(method, resource, status).Observe(elapsed.Seconds())
}

// IncRetry records one retried API request.
func (c *Collector) IncRetry(method, resource string) {
	if c == nil {
		return
	}
	c.apiRequestRetries.WithLabelValues(method, resource).Inc()
}

// ObserveQuery records one direct database query.
func (c *Collector) ObserveQuery(table, operation string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.dbQueryDuration.WithLabelValues(table, operation).Observe(elapsed.Seconds())
}
