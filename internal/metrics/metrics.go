package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the view pipelines. Each
// collector owns its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	Renders          *prometheus.CounterVec
	StaleDiscarded   *prometheus.CounterVec
	CombustWarnings  prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests issued to the chart API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Chart API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Completed view renders by view and outcome.",
		}, []string{"view", "outcome"}),
		StaleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_discarded_total",
			Help:      "Responses dropped because a newer request was issued.",
		}, []string{"view"}),
		CombustWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combust_warnings_total",
			Help:      "Combust warnings emitted while rendering the sky overlay.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status.",
		}, []string{"method", "route", "status"}),
	}
	c.registry.MustRegister(
		c.UpstreamRequests, c.UpstreamDuration, c.Renders,
		c.StaleDiscarded, c.CombustWarnings, c.HTTPRequests,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one chart API call.
func (c *Collector) ObserveUpstream(endpoint string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	c.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (c *Collector) ObserveRender(view string, err error) {
	if c == nil {
		return
	}
	outcome := "rendered"
	if err != nil {
		outcome = "error"
	}
	c.Renders.WithLabelValues(view, outcome).Inc()
}

func (c *Collector) ObserveStale(view string) {
	if c == nil {
		return
	}
	c.StaleDiscarded.WithLabelValues(view).Inc()
}

func (c *Collector) ObserveCombust(n int) {
	if c == nil || n == 0 {
		return
	}
	c.CombustWarnings.Add(float64(n))
}
