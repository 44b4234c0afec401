package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters and request histograms. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	EntitiesCreated    *prometheus.CounterVec
	RuleRejections     *prometheus.CounterVec
	AnalyticsGenerated prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "examhub_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "examhub_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		EntitiesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "examhub_entities_created_total",
			Help: "Total number of entities created by type",
		}, []string{"entity"}),
		RuleRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "examhub_rule_rejections_total",
			Help: "Total number of requests rejected by a domain rule, by error kind",
		}, []string{"kind"}),
		AnalyticsGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "examhub_analytics_generated_total",
			Help: "Total number of analytics reports generated from live data",
		}),
	}
}

func (m *Metrics) IncrementCreated(entity string) {
	if m == nil {
		return
	}
	m.EntitiesCreated.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementRejected(kind string) {
	if m == nil {
		return
	}
	m.RuleRejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementAnalyticsGenerated() {
	if m == nil {
		return
	}
	m.AnalyticsGenerated.Inc()
}

// ObserveRequest records one finished HTTP request.
// Call with time.Now() taken before the handler ran.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
