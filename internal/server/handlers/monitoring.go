package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/server/responses"
	"git.home.luguber.info/inful/postview/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	catalog      Catalog
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(c Catalog, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		catalog:      c,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports "healthy" once an index has loaded and
// "degraded" (503) before that. A failed reload after a successful one keeps
// the status healthy and reports the error.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Status()

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Posts:     st.Posts,
		Reloads:   st.Reloads,
		LastError: st.LastError,
	}
	if !st.LastReload.IsZero() {
		t := st.LastReload.UTC()
		health.LastReload = &t
	}

	status := http.StatusOK
	if !st.Loaded {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	if err := writeJSONPretty(w, r, status, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
