package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the API. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	MediaUploads     *prometheus.CounterVec
	MediaDeletions   *prometheus.CounterVec
	PendingDeletions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mangapress",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mangapress",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		MediaUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mangapress",
			Name:      "media_uploads_total",
			Help:      "Stored uploads by logical type and content type.",
		}, []string{"type", "content_type"}),
		MediaDeletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mangapress",
			Name:      "media_deletions_total",
			Help:      "Remote media deletions by result (ok, failed, retried).",
		}, []string{"result"}),
		PendingDeletions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mangapress",
			Name:      "media_pending_deletions",
			Help:      "Outbox rows waiting for a successful remote delete.",
		}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.MediaUploads, m.MediaDeletions, m.PendingDeletions)
	return m
}

func (m *Metrics) ObserveUpload(logicalType, contentType string) {
	if m == nil {
		return
	}
	m.MediaUploads.WithLabelValues(logicalType, contentType).Inc()
}

func (m *Metrics) ObserveDeletion(result string) {
	if m == nil {
		return
	}
	m.MediaDeletions.WithLabelValues(result).Inc()
}

func (m *Metrics) SetPendingDeletions(n int64) {
	if m == nil {
		return
	}
	m.PendingDeletions.Set(float64(n))
}
