package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ScoringMetrics groups the Prometheus instruments recorded per scoring call.
type ScoringMetrics struct {
	AssessmentsTotal *prometheus.CounterVec
	ScoringDuration  prometheus.Histogram
}

// NewScoringMetrics registers the scoring instruments on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh registry
// to avoid duplicate registration.
func NewScoringMetrics(reg prometheus.Registerer) *ScoringMetrics {
	return &ScoringMetrics{
		AssessmentsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_assessments_total",
			Help: "Completed credit assessments by decision path and outcome.",
		}, []string{"path", "outcome"}),
		ScoringDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "End to end latency of one scoring call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveAssessment records one finished scoring call.
func (m *ScoringMetrics) ObserveAssessment(heuristic, failed bool, elapsed time.Duration) {
	path := "model"
	if heuristic {
		path = "heuristic"
	}
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	m.AssessmentsTotal.WithLabelValues(path, outcome).Inc()
	m.ScoringDuration.Observe(elapsed.Seconds())
}

// InitMetrics wires the OpenTelemetry Prometheus exporter and returns the
// meter provider plus the HTTP handler serving /metrics.
func InitMetrics() (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return provider, promhttp.Handler(), nil
}
