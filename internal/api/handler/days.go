package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tripmapper/tripmapper/internal/api/models"
	"github.com/tripmapper/tripmapper/internal/api/response"
	"github.com/tripmapper/tripmapper/internal/dayhistory"
	"github.com/tripmapper/tripmapper/internal/pathfile"
)

// maxUploadBytes caps uploaded path files. GPX exports from trackers rarely
// exceed a few megabytes.
const maxUploadBytes = 10 << 20

// DaysHandler handles the day tab registry: listing, activation, and path
// uploads.
type DaysHandler struct {
	days *dayhistory.Service
}

// NewDaysHandler creates a new DaysHandler.
func NewDaysHandler(days *dayhistory.Service) *DaysHandler {
	return &DaysHandler{days: days}
}

// ListDays handles GET /v1/days - the tab strip, fixed days first.
func (h *DaysHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	resp := models.DayListResponse{
		Days:        h.days.ListDays(r.Context()),
		ActiveDayID: h.days.ActiveDayID(r.Context()),
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// SetActiveDay handles PUT /v1/days/active. Selecting an unknown day leaves
// the current selection in place; the response always reports the day that
// is actually active.
func (h *DaysHandler) SetActiveDay(w http.ResponseWriter, r *http.Request) {
	var req models.SetActiveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(req.DayID) == "" {
		response.BadRequest(w, r, "dayId is required", []models.FieldError{
			{Field: "dayId", Message: "required"},
		})
		return
	}

	active := h.days.SetActiveDay(r.Context(), req.DayID)
	response.JSON(w, r, http.StatusOK, models.SetActiveDayResponse{ActiveDayID: active})
}

// UploadPath handles POST /v1/days/uploads. The body carries the path file
// as text; parse failures surface as 400s with the parser's message.
func (h *DaysHandler) UploadPath(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req models.UploadPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.days.SaveUploadedPath(r.Context(), req.Content, req.FileName, dayhistory.SaveOptions{
		Title:      req.Title,
		Date:       req.Date,
		DayID:      req.DayID,
		SourceFile: req.FileName,
	})
	if err != nil {
		if isPathFileError(err) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to save uploaded path")
		return
	}

	location := "/v1/days/" + url.PathEscape(result.Day.ID) + "/path"
	response.Created(w, r, location, models.UploadPathResponse{
		Day:         result.Day,
		ActiveDayID: result.Day.ID,
	})
}

// GetDayPath handles GET /v1/days/{dayId}/path - the stored GeoJSON overlay
// for an uploaded day.
func (h *DaysHandler) GetDayPath(w http.ResponseWriter, r *http.Request) {
	dayID := chi.URLParam(r, "dayId")

	fc := h.days.DayPathGeoJSON(r.Context(), dayID)
	if fc == nil {
		response.NotFound(w, r, "no path uploaded for this day")
		return
	}
	response.JSON(w, r, http.StatusOK, fc)
}

func isPathFileError(err error) bool {
	return errors.Is(err, pathfile.ErrEmptyFile) ||
		errors.Is(err, pathfile.ErrUnsupportedFormat) ||
		errors.Is(err, pathfile.ErrNoCoordinates) ||
		errors.Is(err, pathfile.ErrInvalidGeoJSON)
}
