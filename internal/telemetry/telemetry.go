// Package telemetry exposes Prometheus counters for the data-access layer.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequests counts outbound exchange requests by endpoint and outcome.
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "exchange_requests_total", Help: "Signed exchange API requests"},
		[]string{"endpoint", "outcome"},
	)

	// RetryAttempts counts backoff retries issued by the fetch orchestrator.
	RetryAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fetch_retries_total", Help: "Retry attempts after transient failures"},
	)

	// Batches counts all-or-nothing batch fetches by outcome.
	Batches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fetch_batches_total", Help: "Batch fetches by outcome"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(APIRequests, RetryAttempts, Batches)
}

// Serve starts the metrics endpoint in the background and returns the server
// so the caller can shut it down.
func Serve(addr, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
