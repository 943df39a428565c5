package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/mindthegap/internal/app"
)

// FiltersDependencies exposes the dashboard input descriptors.
type FiltersDependencies interface {
	Filters(ctx context.Context) (service.FilterOptions, error)
}

// FiltersHandler handles filter descriptor requests.
type FiltersHandler struct {
	deps FiltersDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FiltersDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleGetFilters handles GET /api/v1/filters requests.
func (h *FiltersHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Filters(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotStarted) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
