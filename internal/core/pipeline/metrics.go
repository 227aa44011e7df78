package pipeline

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_client_requests_total",
		Help: "Outbound ledger API requests by endpoint and status.",
	}, []string{"method", "endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_client_request_duration_seconds",
		Help:    "Latency of outbound ledger API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_client_requests_in_flight",
		Help: "Outbound ledger API requests currently in flight.",
	})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_client_token_refresh_total",
		Help: "Token refresh attempts triggered by 401 responses.",
	}, []string{"outcome"})
)

func Instrument() Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			endpoint := EndpointLabel(req.URL.Path)
			requestsInFlight.Inc()
			start := time.Now()

			resp, err := next.Do(req)

			requestsInFlight.Dec()
			requestDuration.WithLabelValues(req.Method, endpoint).Observe(time.Since(start).Seconds())
			requestsTotal.WithLabelValues(req.Method, endpoint, statusLabel(resp, err)).Inc()
			return resp, err
		})
	}
}

// EndpointLabel collapses identifiers so label cardinality stays bounded.
func EndpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := uuid.Parse(s); err == nil {
			segments[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func statusLabel(resp *http.Response, err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status == 0 {
			return "transport_error"
		}
		return strconv.Itoa(apiErr.Status)
	case err != nil:
		return "transport_error"
	case resp != nil:
		return strconv.Itoa(resp.StatusCode)
	}
	return "unknown"
}
