// Package observability manages the prometheus metrics listener.
package observability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu            sync.Mutex
	metricsServer *http.Server
)

// StartMetricsServer serves /metrics on addr until the context is cancelled
// or StopMetricsServer is called.
func StartMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 120 * time.Second,
	}

	mu.Lock()
	metricsServer = server
	mu.Unlock()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	_ = server.ListenAndServe()
}

// StopMetricsServer shuts down the metrics listener if it is running.
func StopMetricsServer(ctx context.Context) error {
	mu.Lock()
	server := metricsServer
	metricsServer = nil
	mu.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}
