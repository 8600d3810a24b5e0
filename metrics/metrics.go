// Package metrics exposes Prometheus metrics for httpclient calls.
package metrics

import (
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kbukum/fex/httpclient"
)

// Collector is an httpclient.Observer recording request counts, durations,
// in-flight calls, aborts and failures. Requests are labeled by method and
// host. A Collector is safe for concurrent use.
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec
	abortsTotal      *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	rateLimitedTotal *prometheus.CounterVec
}

var _ httpclient.Observer = (*Collector)(nil)

// NewCollector creates a collector on the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector on reg.
func NewCollectorWithRegistry(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_requests_total",
				Help: "Total number of HTTP requests that received a response",
			},
			[]string{"method", "host", "status_code"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fex_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "host"},
		),
		requestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fex_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "host"},
		),
		abortsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_aborts_total",
				Help: "Total number of requests aborted by timeout or cancellation",
			},
			[]string{"method", "host", "cause"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_errors_total",
				Help: "Total number of failed requests by error kind",
			},
			[]string{"method", "host", "kind"},
		),
		rateLimitedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_rate_limited_total",
				Help: "Total number of requests delayed or rejected by a rate limiter",
			},
			[]string{"limiter"},
		),
	}
}

func (c *Collector) RequestStarted(cfg *httpclient.Config) {
	if c == nil {
		return
	}
	c.requestsInFlight.WithLabelValues(cfg.Method, host(cfg.URL)).Inc()
}

func (c *Collector) RequestFinished(cfg *httpclient.Config, resp *httpclient.Response, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	h := host(cfg.URL)
	c.requestsInFlight.WithLabelValues(cfg.Method, h).Dec()
	c.requestDuration.WithLabelValues(cfg.Method, h).Observe(elapsed.Seconds())

	status := 0
	if resp != nil {
		status = resp.Status
	}
	if e, ok := httpclient.AsError(err); ok {
		if status == 0 {
			status = e.Status()
		}
		if e.Kind != httpclient.KindAborted {
			c.errorsTotal.WithLabelValues(cfg.Method, h, e.Kind.String()).Inc()
		}
	}
	if status != 0 {
		c.requestsTotal.WithLabelValues(cfg.Method, h, strconv.Itoa(status)).Inc()
	}
}

func (c *Collector) RequestAborted(cfg *httpclient.Config, cause httpclient.AbortCause) {
	if c == nil {
		return
	}
	c.abortsTotal.WithLabelValues(cfg.Method, host(cfg.URL), cause.String()).Inc()
}

// RecordRateLimited counts a request held back by the named limiter.
func (c *Collector) RecordRateLimited(limiter string) {
	if c == nil {
		return
	}
	c.rateLimitedTotal.WithLabelValues(limiter).Inc()
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
