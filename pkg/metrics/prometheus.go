package metrics

import (
	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements metrics collection using Prometheus
type PrometheusCollector struct {
	serviceName string

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	pageFetchesTotal  *prometheus.CounterVec
	pageFetchDuration *prometheus.HistogramVec
	auditsTotal       *prometheus.CounterVec
	auditDuration     *prometheus.HistogramVec
	seoScore          *prometheus.HistogramVec
	estimatesTotal    *prometheus.CounterVec
	estimateDuration  *prometheus.HistogramVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector
func NewPrometheusCollector(serviceName string) *PrometheusCollector {
	constLabels := prometheus.Labels{"service": serviceName}

	return &PrometheusCollector{
		serviceName: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "http_requests_in_flight",
				Help:        "Number of HTTP requests currently being processed",
				ConstLabels: constLabels,
			},
		),

		pageFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "seo_page_fetches_total",
				Help:        "Total number of audited page fetches",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),

		pageFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "seo_page_fetch_duration_seconds",
				Help:        "Audited page fetch duration in seconds",
				ConstLabels: constLabels,
				Buckets:     []float64{0.1, 0.25, 0.5, 1, 1.5, 3, 5, 10, 15},
			},
			[]string{"status"},
		),

		auditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "seo_audits_total",
				Help:        "Total number of deterministic SEO audits",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),

		auditDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "seo_audit_duration_seconds",
				Help:        "Deterministic SEO audit duration in seconds",
				ConstLabels: constLabels,
				Buckets:     []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),

		seoScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "seo_score_overall",
				Help:        "Distribution of overall SEO scores",
				ConstLabels: constLabels,
				Buckets:     []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"grade"},
		),

		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "seo_llm_estimates_total",
				Help:        "Total number of LLM SEO estimates by estimation method",
				ConstLabels: constLabels,
			},
			[]string{"method"},
		),

		estimateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "seo_llm_estimate_duration_seconds",
				Help:        "LLM SEO estimate duration in seconds",
				ConstLabels: constLabels,
				Buckets:     []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"method"},
		),
	}
}

// GetCollectors returns all Prometheus collectors for registration
func (p *PrometheusCollector) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.httpRequestsInFlight,
		p.pageFetchesTotal,
		p.pageFetchDuration,
		p.auditsTotal,
		p.auditDuration,
		p.seoScore,
		p.estimatesTotal,
		p.estimateDuration,
	}
}

// RecordRequest records HTTP request metrics
func (p *PrometheusCollector) RecordRequest(method, path string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)

	p.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	p.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
}

// RecordFetch records page fetch metrics
func (p *PrometheusCollector) RecordFetch(success bool, duration float64) {
	status := successLabel(success)

	p.pageFetchesTotal.WithLabelValues(status).Inc()
	p.pageFetchDuration.WithLabelValues(status).Observe(duration)
}

// RecordAudit records deterministic audit metrics
func (p *PrometheusCollector) RecordAudit(success bool, duration float64) {
	status := successLabel(success)

	p.auditsTotal.WithLabelValues(status).Inc()
	p.auditDuration.WithLabelValues(status).Observe(duration)
}

// RecordScore records the overall score of a finished audit
func (p *PrometheusCollector) RecordScore(grade string, overall int) {
	p.seoScore.WithLabelValues(grade).Observe(float64(overall))
}

// RecordEstimate records an LLM estimate, labelled llm or heuristic
func (p *PrometheusCollector) RecordEstimate(method string, duration float64) {
	p.estimatesTotal.WithLabelValues(method).Inc()
	p.estimateDuration.WithLabelValues(method).Observe(duration)
}

// IncRequestsInFlight increments the in-flight requests gauge
func (p *PrometheusCollector) IncRequestsInFlight() {
	p.httpRequestsInFlight.Inc()
}

// DecRequestsInFlight decrements the in-flight requests gauge
func (p *PrometheusCollector) DecRequestsInFlight() {
	p.httpRequestsInFlight.Dec()
}

func successLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// statusCodeToString converts HTTP status code to string category
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// Collector is the full surface the service wires into middleware and /metrics.
type Collector interface {
	interfaces.MetricsCollector
	IncRequestsInFlight()
	DecRequestsInFlight()
	GetCollectors() []prometheus.Collector
}

// Ensure PrometheusCollector implements interfaces.MetricsCollector
var _ interfaces.MetricsCollector = (*PrometheusCollector)(nil)
var _ Collector = (*PrometheusCollector)(nil)
