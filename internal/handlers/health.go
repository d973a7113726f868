package handlers

import (
	"net/http"
	"os"

	"github.com/bobmcallan/vire-picks/internal/common"
)

// HealthHandler handles health check requests. It also reports whether the
// two input documents are currently present on disk.
type HealthHandler struct {
	logger       *common.Logger
	snapshotPath string
	equityPath   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, snapshotPath, equityPath string) *HealthHandler {
	return &HealthHandler{logger: logger, snapshotPath: snapshotPath, equityPath: equityPath}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"snapshot": fileState(h.snapshotPath),
		"equity":   fileState(h.equityPath),
	})
}

func fileState(path string) string {
	if path == "" {
		return "unconfigured"
	}
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "present"
}
