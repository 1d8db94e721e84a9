package rest

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports reachability of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	checkUp         = "up"
	checkDown       = "down"
)

type HealthHandler struct {
	*BaseHandler
	version string
	backend Pinger
	store   Pinger
}

func NewHealthHandler(base *BaseHandler, version string, backend Pinger, store Pinger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		backend:     backend,
		store:       store,
	}
}

// GetLiveness implements the liveness probe endpoint
// This is a lightweight check with no external dependencies
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteData(w, r, healthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
	}, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint
// This checks the backend API and the Redis store
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := statusHealthy
	httpStatus := http.StatusOK
	checks := map[string]string{}

	if err := h.backend.Ping(ctx); err != nil {
		checks["backend"] = checkDown
		status = statusUnhealthy
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["backend"] = checkUp
	}

	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = checkDown
		status = statusUnhealthy
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = checkUp
	}

	h.WriteData(w, r, healthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    checks,
	}, httpStatus)
}
