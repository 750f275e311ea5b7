package handlers

import (
	"chatlead-backend/internal/models"
	"chatlead-backend/pkg/httputil"
	"net/http"
	"time"
)

type HealthHandler struct {
	env models.HealthEnvironment
}

// NewHealthHandler creates a HealthHandler reporting the given configuration
// flags. The flags are fixed at startup; the probe never re-checks anything.
func NewHealthHandler(env models.HealthEnvironment) *HealthHandler {
	return &HealthHandler{env: env}
}

// HandleHealth handles GET /api/health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Time:        time.Now().UTC().Format(time.RFC3339),
		Environment: h.env,
	})
}

// HandleRoot handles GET / with a human-facing status line.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.RootStatusResponse{
		Status:  "ok",
		Message: "API is working",
		Services: models.RootStatusServices{
			Store:     h.env.StoreConfigured,
			Gemini:    h.env.GeminiConfigured,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}
