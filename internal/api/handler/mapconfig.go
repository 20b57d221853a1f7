package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripmapper/tripmapper/internal/api/response"
	"github.com/tripmapper/tripmapper/internal/dayhistory"
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// maxPatchBytes caps map config patch documents.
const maxPatchBytes = 1 << 20

// MapConfigHandler builds per-day map configs from the loaded trip and
// applies client patch documents to them.
type MapConfigHandler struct {
	builder *mapconfig.Builder
	trip    trip.Trip
	days    *dayhistory.Service
}

// NewMapConfigHandler creates a new MapConfigHandler.
func NewMapConfigHandler(builder *mapconfig.Builder, t trip.Trip, days *dayhistory.Service) *MapConfigHandler {
	return &MapConfigHandler{builder: builder, trip: t, days: days}
}

// GetMapConfig handles GET /v1/days/{dayId}/map-config.
func (h *MapConfigHandler) GetMapConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.buildForDay(r, chi.URLParam(r, "dayId"))
	if !ok {
		response.NotFound(w, r, "no itinerary data for this day")
		return
	}
	response.JSON(w, r, http.StatusOK, cfg)
}

// PatchMapConfig handles POST /v1/days/{dayId}/map-config/patch. The body is
// a partial map config document merged over the synthesized one; the merged
// result is returned without being persisted.
func (h *MapConfigHandler) PatchMapConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.buildForDay(r, chi.URLParam(r, "dayId"))
	if !ok {
		response.NotFound(w, r, "no itinerary data for this day")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPatchBytes))
	if err != nil {
		response.BadRequest(w, r, "failed to read patch body", nil)
		return
	}

	merged, err := mapconfig.ApplyPatch(cfg, body)
	if err != nil {
		if errors.Is(err, mapconfig.ErrPatchInvalidJSON) || errors.Is(err, mapconfig.ErrPatchNotObject) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to apply patch")
		return
	}
	response.JSON(w, r, http.StatusOK, merged)
}

// buildForDay resolves a day id to its calendar date and synthesizes the map
// config from the matching trip day.
func (h *MapConfigHandler) buildForDay(r *http.Request, dayID string) (*mapconfig.MapConfig, bool) {
	date := h.builder.DateForDayID(dayID)
	if date == "" && h.days != nil {
		for _, day := range h.days.ListDays(r.Context()) {
			if day.ID == dayID {
				date = day.Date
				break
			}
		}
	}
	if date == "" {
		return nil, false
	}

	day, ok := trip.DayByDate(h.trip, date)
	if !ok {
		return nil, false
	}
	cfg := h.builder.BuildFromDay(day)
	return cfg, cfg != nil
}
