// Package metrics provides Prometheus metric collection and exposure for the
// OpenHeritage API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the API's Prometheus metrics. One collector is shared by
// the HTTP middleware, the interaction handlers, and the snapshot hub gauge.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	likesWritten    prometheus.Counter
	commentsWritten prometheus.Counter
	snapshotsSent   prometheus.Counter
	roleLookups     *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openheritage_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "openheritage_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		likesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openheritage_likes_written_total",
			Help: "Like toggles that reached the store",
		}),
		commentsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openheritage_comments_written_total",
			Help: "Comments posted",
		}),
		snapshotsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openheritage_snapshots_published_total",
			Help: "Interaction snapshots published to stream subscribers",
		}),
		roleLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openheritage_role_lookups_total",
			Help: "Role resolutions by outcome (hit, miss)",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.likesWritten,
		c.commentsWritten,
		c.snapshotsSent,
		c.roleLookups,
	)

	return c
}

// RegisterStreamGauge registers a gauge fed by the hub's subscriber count
func (c *Collector) RegisterStreamGauge(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "openheritage_stream_subscribers",
		Help: "Currently connected interaction stream subscribers",
	}, func() float64 {
		return float64(count())
	}))
}

// RecordRequest records a finished HTTP request
func (c *Collector) RecordRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordLikeWrite records a like toggle that reached the store
func (c *Collector) RecordLikeWrite() {
	c.likesWritten.Inc()
}

// RecordCommentWrite records a posted comment
func (c *Collector) RecordCommentWrite() {
	c.commentsWritten.Inc()
}

// RecordSnapshot records a published snapshot
func (c *Collector) RecordSnapshot() {
	c.snapshotsSent.Inc()
}

// RecordRoleLookup records a role resolution outcome
func (c *Collector) RecordRoleLookup(outcome string) {
	c.roleLookups.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
