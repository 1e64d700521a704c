package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"remediation-bridge/internal/models"
)

// Pinger is a dependency the readiness probe can check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and readiness checks
type HealthHandler struct {
	cluster Pinger
	redis   Pinger
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. redis may be nil when auditing is off.
func NewHealthHandler(cluster Pinger, redis Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		cluster: cluster,
		redis:   redis,
		logger:  logger,
	}
}

// HandleHealth handles GET /health (liveness probe)
// Returns 200 unconditionally; a broken cluster context must not restart the bridge.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// HandleReady handles GET /ready (readiness probe)
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := models.ReadyResponse{
		Status: "ready",
		Checks: map[string]string{},
	}
	status := http.StatusOK

	if err := h.cluster.Ping(ctx); err != nil {
		h.logger.Error("readiness check failed: cluster unavailable", zap.Error(err))
		response.Checks["cluster"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		response.Checks["cluster"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Error("readiness check failed: redis unavailable", zap.Error(err))
			response.Checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			response.Checks["redis"] = "up"
		}
	}

	if status != http.StatusOK {
		response.Status = "unavailable"
	}
	respondWithJSON(w, status, response)
}
