package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry holds the client's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight backend requests.",
		},
	)

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of backend requests issued.",
		},
		[]string{"method", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(requestsInFlight, requestsTotal, requestDuration)
}

type instrumentedTransport struct {
	base http.RoundTripper
}

// InstrumentTransport wraps a RoundTripper with request counters and latency
// histograms. A nil base uses http.DefaultTransport.
func InstrumentTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &instrumentedTransport{base: base}
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestsInFlight.Inc()
	start := time.Now()

	resp, err := t.base.RoundTrip(req)

	requestsInFlight.Dec()
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(req.Method, status).Inc()

	return resp, err
}
