package handlers

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"remediation-bridge/internal/api/middleware"
	"remediation-bridge/internal/audit"
	"remediation-bridge/internal/remediation"
)

const auditTimeout = 2 * time.Second

// Dispatcher executes a decoded intent
type Dispatcher interface {
	Execute(ctx context.Context, in remediation.Intent) (remediation.Outcome, error)
}

// ManageHandler handles remediation requests
type ManageHandler struct {
	dispatcher       Dispatcher
	recorder         audit.Recorder
	defaultNamespace string
	logger           *zap.Logger
}

// NewManageHandler creates a new manage handler. A nil recorder disables auditing.
func NewManageHandler(dispatcher Dispatcher, recorder audit.Recorder, defaultNamespace string, logger *zap.Logger) *ManageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &ManageHandler{
		dispatcher:       dispatcher,
		recorder:         recorder,
		defaultNamespace: defaultNamespace,
		logger:           logger,
	}
}

// Handle handles POST /manage
func (h *ManageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer r.Body.Close()
	in, err := remediation.DecodeIntent(r.Body, h.defaultNamespace)
	if err != nil {
		h.logger.Warn("failed to decode manage request", zap.Error(err))
		respondWithError(w, remediation.StatusCode(err), err.Error())
		return
	}

	label := actionLabel(in.Action)
	start := time.Now()
	outcome, err := h.dispatcher.Execute(ctx, in)
	middleware.ActionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		code := remediation.StatusCode(err)
		h.logger.Error("remediation action failed",
			zap.Error(err),
			zap.String("action", string(in.Action)),
			zap.String("namespace", in.Namespace),
			zap.String("deployment", in.Deployment),
			zap.Int("status", code),
		)
		middleware.ActionsTotal.WithLabelValues(label, "failure").Inc()
		h.record(ctx, in, "failure", code, err.Error())
		respondWithError(w, code, err.Error())
		return
	}

	h.logger.Info("remediation action applied",
		zap.String("action", string(in.Action)),
		zap.String("namespace", in.Namespace),
		zap.String("deployment", in.Deployment),
		zap.String("message", outcome.Message),
	)
	middleware.ActionsTotal.WithLabelValues(label, "success").Inc()
	h.record(ctx, in, outcome.Status, http.StatusOK, outcome.Message)
	respondWithJSON(w, http.StatusOK, outcome)
}

// record writes the audit event. Failures are logged and never change the response.
func (h *ManageHandler) record(ctx context.Context, in remediation.Intent, status string, code int, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	err := h.recorder.Record(ctx, audit.Event{
		RequestID:  chimiddleware.GetReqID(ctx),
		Action:     string(in.Action),
		Namespace:  in.Namespace,
		Deployment: in.Deployment,
		Status:     status,
		Code:       code,
		Message:    message,
	})
	if err != nil {
		middleware.AuditFailuresTotal.Inc()
		h.logger.Warn("failed to record audit event",
			zap.Error(err),
			zap.String("action", string(in.Action)),
			zap.String("deployment", in.Deployment),
		)
	}
}

// actionLabel bounds metric label cardinality to the known vocabulary
func actionLabel(a remediation.Action) string {
	if a.Valid() {
		return string(a)
	}
	return "unsupported"
}
