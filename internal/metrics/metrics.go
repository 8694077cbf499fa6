// Package metrics exposes Prometheus counters for bot activity.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Admissions counts inbound-message admission outcomes.
	Admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_admissions_total",
		Help: "Inbound message admission decisions by outcome.",
	}, []string{"decision"})

	// ModelCalls counts completion calls by status.
	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_model_calls_total",
		Help: "Model completion calls by status.",
	}, []string{"status"})

	// Commands counts handled slash commands by name.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_commands_total",
		Help: "Handled slash commands by name.",
	}, []string{"command"})
)

// Serve runs a /metrics listener on addr until the context is cancelled.
// It returns nil on graceful shutdown.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
