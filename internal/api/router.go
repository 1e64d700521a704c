package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"remediation-bridge/internal/api/handlers"
	"remediation-bridge/internal/api/middleware"
	"remediation-bridge/internal/audit"
	"remediation-bridge/internal/config"
)

// NewRouter creates a new Chi router with all routes and middleware configured.
// redis may be nil when auditing is disabled.
func NewRouter(
	dispatcher handlers.Dispatcher,
	recorder audit.Recorder,
	cluster handlers.Pinger,
	redis handlers.Pinger,
	cfg *config.Config,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)

	// Initialize handlers
	manageHandler := handlers.NewManageHandler(dispatcher, recorder, cfg.DefaultNamespace, logger)
	healthHandler := handlers.NewHealthHandler(cluster, redis, logger)

	// Health and readiness endpoints
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/ready", healthHandler.HandleReady)

	// Metrics endpoint (served separately when METRICS_PORT differs)
	if cfg.MetricsPort == cfg.HTTPPort {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	// Credential gate runs before the body is read
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.APIToken, logger))
		r.Post("/manage", manageHandler.Handle)
	})

	return r
}
