package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports process liveness and dataset readiness.
type HealthHandler struct {
	service DataServiceInterface
	started time.Time
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service DataServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		started: time.Now(),
		version: version,
	}
}

// Routes sets up the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHealth)
	r.Get("/ready", h.GetReady)
	return r
}

// GetHealth returns basic liveness status
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"station":   h.service.StationName(),
		"uptime":    time.Since(h.started).String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetReady reports whether the dataset can be served. A missing source
// file makes the dashboard unavailable as a whole.
func (h *HealthHandler) GetReady(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "ready",
		"readings": bounds.Count,
		"min_date": bounds.MinDate.String(),
		"max_date": bounds.MaxDate.String(),
	})
}
