package api

import (
	"errors"
	"net/http"
)

// RefreshDependencies starts an out-of-schedule collection.
type RefreshDependencies interface {
	// Refresh returns an error matching ErrBackpressure when a collection
	// is already running.
	Refresh() error
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh requests.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, _ *http.Request) {
	const op = "api.post_refresh"

	if err := h.deps.Refresh(); err != nil {
		if errors.Is(err, ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
