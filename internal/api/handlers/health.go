package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health and the state of its dependencies
type HealthHandler struct {
	service string
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler. deps may be empty.
func NewHealthHandler(service string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, deps: deps, timeout: 2 * time.Second}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Check probes every dependency; one failure makes the service unavailable
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Service: h.service}
	status := http.StatusOK
	if len(h.deps) > 0 {
		resp.Dependencies = make(map[string]string, len(h.deps))
	}
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			resp.Dependencies[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	respondJSON(w, status, resp)
}
