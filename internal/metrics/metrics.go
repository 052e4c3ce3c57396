// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the service's Prometheus metrics.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	uploads         prometheus.Counter
	uploadBytes     prometheus.Counter
	downloads       prometheus.Counter
	deletes         prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteshare_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "noteshare_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteshare_note_uploads_total",
			Help: "Notes created, files and links combined.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteshare_upload_bytes_total",
			Help: "Bytes accepted into the blob store.",
		}),
		downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteshare_note_downloads_total",
			Help: "File note downloads served.",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteshare_note_deletes_total",
			Help: "Notes deleted by their owners.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.requestDuration,
		c.uploads,
		c.uploadBytes,
		c.downloads,
		c.deletes,
	)

	return c
}

// RecordHTTPStatus counts one response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration observes one request's latency.
func (c *Collector) RecordRequestDuration(d time.Duration) {
	c.requestDuration.Observe(d.Seconds())
}

// RecordUpload counts one created note and its stored bytes.
func (c *Collector) RecordUpload(byteSize int64) {
	c.uploads.Inc()
	if byteSize > 0 {
		c.uploadBytes.Add(float64(byteSize))
	}
}

// RecordDownload counts one served download.
func (c *Collector) RecordDownload() {
	c.downloads.Inc()
}

// RecordDelete counts one owner delete.
func (c *Collector) RecordDelete() {
	c.deletes.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware records status codes and latency for every request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		c.RecordHTTPStatus(rec.status)
		c.RecordRequestDuration(time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
