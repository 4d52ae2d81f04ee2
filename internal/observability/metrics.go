package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

const namespace = "entreprenot"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	analyses *prometheus.CounterVec
	scores   prometheus.Histogram
	ruleHits *prometheus.CounterVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors, plus the Go and process
// collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Profiles analyzed, by verdict.",
		}, []string{"verdict"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "spam_score",
			Help:      "Distribution of spam scores.",
			Buckets:   []float64{0, 20, 40, 60, 80, 100},
		}),
		ruleHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_hits_total",
			Help:      "Rule matches contributing to a score, by rule category.",
		}, []string{"rule"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.reg.MustRegister(
		m.analyses,
		m.scores,
		m.ruleHits,
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResult records one completed analysis.
func (m *Metrics) ObserveResult(res spam.Result) {
	m.analyses.WithLabelValues(string(res.Verdict)).Inc()
	m.scores.Observe(float64(res.Score))
	for _, match := range res.Matches {
		m.ruleHits.WithLabelValues(string(match.Rule)).Inc()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, seconds float64) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
