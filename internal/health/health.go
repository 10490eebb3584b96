package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check reports whether a dependency is usable. A nil error means healthy.
type Check func(ctx context.Context) error

// Handler answers 200 {"status":"ok"} when every check passes and
// 503 with the failure otherwise.
func Handler(checks map[string]Check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failures := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failures[name] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "checks": failures})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}

// Server is a standalone liveness and metrics endpoint for processes
// without their own HTTP server.
type Server struct {
	httpServer *http.Server
}

func New(port int, checks map[string]Check) *Server {
	mux := http.NewServeMux()
	mux.Handle("GET /health", Handler(checks))
	mux.Handle("GET /metrics", promhttp.Handler())
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
