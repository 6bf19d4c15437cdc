package handlers

import (
	"net/http"
	"time"

	"github.com/cinelog/cinelog-server/internal/httputil"
)

type HealthHandler struct {
	version   string
	startedAt time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}
