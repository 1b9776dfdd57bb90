package handlers

import (
	"net/http"
	"runtime"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/version"
)

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	svc *forge.Service
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(svc *forge.Service) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// GetStats returns in-process operation latency percentiles.
func (h *SystemHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.svc.Metrics().Stats())
}

// GetStatus reports database and card database readiness.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.svc.Status(r.Context()))
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version":    version.GetVersion(),
		"service":    version.ServiceName,
		"go_version": runtime.Version(),
	})
}
