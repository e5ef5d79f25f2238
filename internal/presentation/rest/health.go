package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultpay/fraud-inference/internal/domain/port"
	"github.com/vaultpay/fraud-inference/pkg/postgres"
)

// HealthHandler provides HTTP health check endpoints for the inference service.
type HealthHandler struct {
	logger    *slog.Logger
	mdl       port.Model
	pool      *pgxpool.Pool
	startTime time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(mdl port.Model, pool *pgxpool.Pool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		mdl:       mdl,
		pool:      pool,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks  map[string]string `json:"checks"`
	Status  string            `json:"status"`
	Service string            `json:"service"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: "fraud-inference",
		Uptime:  time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

// Readyz handles readiness probe requests. The service is not ready
// while the model runs degraded or the database is unreachable.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"model":    "ok",
		"database": "ok",
	}
	ready := true

	if !h.mdl.Ready() {
		checks["model"] = "model resources not loaded"
		ready = false
	}

	if h.pool != nil {
		if err := postgres.HealthCheck(r.Context(), h.pool); err != nil {
			checks["database"] = err.Error()
			ready = false
		}
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	resp := ReadinessResponse{
		Status:  status,
		Service: "fraud-inference",
		Checks:  checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}
