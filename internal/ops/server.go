// Package ops serves the operational HTTP surface: liveness and
// readiness probes plus the Prometheus metrics endpoint, on a port
// separate from the Telegram webhook listener.
package ops

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZoozFX/Telegram-1-sub000/internal/health"
	"github.com/ZoozFX/Telegram-1-sub000/internal/middleware"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/config"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/graceful"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/logger"
)

// Readiness aggregates several network probes; keep it bounded so a
// hung dependency cannot stall the endpoint.
const readinessTimeout = 5 * time.Second

// Server exposes health probes and metrics over HTTP.
type Server struct {
	server *graceful.Server
	log    *slog.Logger
}

// New assembles the ops server from the application configuration.
func New(cfg config.ServerConfig, checker *health.Checker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(checker, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: graceful.NewServer(log, httpServer, cfg.ShutdownTimeout),
		log:    log,
	}
}

// Run serves until ctx is canceled, then drains gracefully.
func (s *Server) Run(ctx context.Context) error {
	return s.server.ListenAndServe(ctx)
}

// NewRouter assembles the ops endpoints.
func NewRouter(checker *health.Checker, log *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(logger.Middleware)
	router.Use(middleware.New(log))

	router.Get("/healthz", handleLiveness)
	router.Get("/readyz", handleReadiness(checker))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}

func handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReadiness(checker *health.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			writeJSON(w, http.StatusOK, health.Report{Healthy: true})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		report := checker.Check(ctx)

		status := http.StatusOK
		if !report.Healthy {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
