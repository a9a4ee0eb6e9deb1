package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

const serviceName = "twinrisk"

// HealthHandler provides HTTP health check endpoints for the risk service.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	info      model.ModelInfo
	metrics   http.Handler
	deps      map[string]func(context.Context) error
}

// NewHealthHandler creates a new health check handler. metrics may be nil.
func NewHealthHandler(info model.ModelInfo, metrics http.Handler, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		info:      info,
		metrics:   metrics,
		deps:      make(map[string]func(context.Context) error),
	}
}

// AddCheck registers a dependency probe run on every readiness request.
func (h *HealthHandler) AddCheck(name string, check func(context.Context) error) {
	h.deps[name] = check
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	ModelVersion string            `json:"model_version"`
	Checks       map[string]string `json:"checks"`
}

// RegisterRoutes registers health and metrics endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz reports ready once a model is loaded. An unfitted default model is
// served but reported as degraded; a failing dependency makes the service not ready.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"model":       "ok",
		"explanation": "ok",
	}
	status := "ready"
	if !h.info.Fitted {
		checks["model"] = "unfitted default"
		status = "degraded"
	}
	if !h.info.Explainable {
		checks["explanation"] = "unavailable"
	}

	code := http.StatusOK
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for name, check := range h.deps {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			checks[name] = "failed"
			status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	h.write(w, code, ReadinessResponse{
		Status:       status,
		Service:      serviceName,
		ModelVersion: h.info.ModelVersion,
		Checks:       checks,
	})
}

func (h *HealthHandler) write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write health response", slog.String("error", err.Error()))
	}
}
