package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

// metricsServer exposes a session's cache metrics over HTTP while an
// interactive session runs.
type metricsServer struct {
	server   *http.Server
	listener net.Listener
}

// startMetricsServer listens on addr and serves reg at /metrics and a liveness
// probe at /health. Listen errors are returned immediately.
func startMetricsServer(ctx context.Context, addr string, reg *prometheus.Registry) (*metricsServer, error) {
	log := cliLogger(ctx)

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	s := &metricsServer{
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout},
		listener: ln,
	}

	go func() {
		if serveErr := s.server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error().Err(serveErr).Str("addr", s.Addr()).Msg("metrics server stopped")
		}
	}()

	log.Info().Str("addr", s.Addr()).Str("path", metricsPath).Msg("serving cache metrics")
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *metricsServer) Addr() string {
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight scrapes.
func (s *metricsServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
