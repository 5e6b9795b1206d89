package handler

import (
	"net/http"

	"outlethub-api/pkg/response"
)

// StatusHandler reports service liveness and build info.
type StatusHandler struct {
	name        string
	version     string
	environment string
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(name, version, environment string) *StatusHandler {
	return &StatusHandler{name: name, version: version, environment: environment}
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"service":     h.name,
		"version":     h.version,
		"environment": h.environment,
		"status":      "ok",
	})
}
