package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/okian/mindthegap/internal/adapters/render"
	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
)

// Query parameters accepted by the chart endpoints.
const (
	paramYearMin   = "year_min"
	paramYearMax   = "year_max"
	paramCountry   = "country"
	paramCountries = "countries"

	chartsPrefix = "/api/v1/charts/"
)

// ChartsHandler serves chart bundles, single figures and rendered images.
type ChartsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies, log logger.Logger) *ChartsHandler {
	return &ChartsHandler{deps: deps, logger: log}
}

// HandleGetBundle handles GET /api/v1/charts requests.
func (h *ChartsHandler) HandleGetBundle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	fs, err := h.filterState(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.deps.Bundle(r.Context(), fs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleGetFigure handles GET /api/v1/charts/{id} and
// GET /api/v1/charts/{id}.{png|svg} requests.
func (h *ChartsHandler) HandleGetFigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, chartsPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing figure id", ErrBadRequest))
		return
	}

	fs, err := h.filterState(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ext := path.Ext(id)
	if ext == "" {
		fig, err := h.deps.Figure(r.Context(), fs, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fig)
		return
	}

	format, err := render.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.deps.Render(r.Context(), fs, strings.TrimSuffix(id, ext), format, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// filterState reads the filter inputs from q. Missing bounds default to the
// dataset's year domain; the service clamps the rest.
func (h *ChartsHandler) filterState(ctx context.Context, q url.Values) (model.FilterState, error) {
	opts, err := h.deps.Filters(ctx)
	if err != nil {
		return model.FilterState{}, err
	}
	yearMin, err := intParam(q, paramYearMin, opts.YearMin)
	if err != nil {
		return model.FilterState{}, err
	}
	yearMax, err := intParam(q, paramYearMax, opts.YearMax)
	if err != nil {
		return model.FilterState{}, err
	}

	countries := append([]string(nil), q[paramCountry]...)
	for _, v := range q[paramCountries] {
		countries = append(countries, strings.Split(v, ",")...)
	}
	return model.NewFilterState(yearMin, yearMax, countries), nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrBadRequest, name, raw)
	}
	return v, nil
}

// fail translates err into a status code and JSON error body.
func (h *ChartsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrUnknownFigure):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, render.ErrEmptyFigure):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, render.ErrUnsupportedFormat), errors.Is(err, render.ErrUnsupportedFigure):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		h.logger.Error(r.Context(), "chart request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
