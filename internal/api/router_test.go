package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmapper/tripmapper/internal/api"
	"github.com/tripmapper/tripmapper/internal/api/handler"
	"github.com/tripmapper/tripmapper/internal/api/models"
	"github.com/tripmapper/tripmapper/internal/dayhistory"
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/internal/trip"
)

const testGPX = `<?xml version="1.0"?>
<gpx><trk><trkseg>
<trkpt lat="40.7712" lon="-73.9742"></trkpt>
<trkpt lat="40.7735" lon="-73.9708"></trkpt>
</trkseg></trk></gpx>`

func testTrip() trip.Trip {
	return trip.SanitizeTrip(trip.Trip{
		TripName: "NYC Weekend",
		Timezone: "America/New_York",
		Days: []trip.Day{
			{
				Date:         "2026-02-13",
				Title:        "Friday",
				BaseLocation: "New York, NY",
				Items: []trip.Item{
					{
						Title:     "Hotel check-in",
						Type:      "start",
						StartTime: "15:00",
						Locations: []trip.Location{
							{Name: "Hotel", Address: "145 W 47th St, New York, NY 10036"},
						},
					},
					{
						Title:     "Dinner",
						Type:      "food",
						StartTime: "19:00",
						Locations: []trip.Location{
							{Name: "Ci Siamo", Address: "440 W 33rd St, New York, NY 10001"},
						},
					},
				},
			},
		},
	})
}

func newTestRouter(t *testing.T, checks map[string]handler.ReadyCheck) http.Handler {
	t.Helper()
	days := dayhistory.NewService(dayhistory.ServiceConfig{Logger: zerolog.Nop()})
	return api.NewRouter(api.RouterConfig{
		Version:     "test",
		BuildTime:   "2026-01-01T00:00:00Z",
		Logger:      zerolog.New(io.Discard),
		Trip:        testTrip(),
		Builder:     mapconfig.NewBuilder(),
		DayService:  days,
		ReadyChecks: checks,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/ops/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t, map[string]handler.ReadyCheck{
		"meta-store": func(context.Context) error { return nil },
	})

	w := doJSON(t, router, http.MethodGet, "/v1/ops/ready", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "ok", health.Details["meta-store"])
}

func TestRouter_ReadinessCheck_FailingSubsystem(t *testing.T) {
	router := newTestRouter(t, map[string]handler.ReadyCheck{
		"meta-store": func(context.Context) error { return errors.New("connection refused") },
	})

	w := doJSON(t, router, http.MethodGet, "/v1/ops/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusFail, health.Status)
	assert.Equal(t, "connection refused", health.Details["meta-store"])
}

func TestRouter_ListDays(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/days", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DayListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Days, 3)
	assert.Equal(t, "friday", resp.Days[0].ID)
	assert.Equal(t, "/", resp.Days[0].Href)
	assert.Equal(t, "saturday", resp.Days[1].ID)
	assert.Equal(t, "sunday", resp.Days[2].ID)
	assert.Equal(t, "friday", resp.ActiveDayID)
}

func TestRouter_SetActiveDay(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPut, "/v1/days/active", models.SetActiveDayRequest{DayID: "saturday"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SetActiveDayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "saturday", resp.ActiveDayID)

	// Unknown day leaves the selection in place
	w = doJSON(t, router, http.MethodPut, "/v1/days/active", models.SetActiveDayRequest{DayID: "no-such-day"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "saturday", resp.ActiveDayID)
}

func TestRouter_SetActiveDay_MissingDayID(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPut, "/v1/days/active", models.SetActiveDayRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "dayId")
}

func TestRouter_UploadPathAndFetchIt(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/v1/days/uploads", models.UploadPathRequest{
		FileName: "hike.gpx",
		Content:  testGPX,
		Title:    "Morning Hike",
		Date:     "2026-02-20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded models.UploadPathResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "day-2026-02-20", uploaded.Day.ID)
	assert.Equal(t, "Morning Hike", uploaded.Day.Title)
	assert.True(t, uploaded.Day.HasPath)
	assert.Equal(t, "/v1/days/day-2026-02-20/path", w.Header().Get("Location"))

	// The uploaded day becomes the active tab
	w = doJSON(t, router, http.MethodGet, "/v1/days", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.DayListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, "day-2026-02-20", list.ActiveDayID)
	require.Len(t, list.Days, 4)

	// And its geometry is retrievable
	w = doJSON(t, router, http.MethodGet, "/v1/days/day-2026-02-20/path", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
}

func TestRouter_UploadPath_UnsupportedFormat(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/v1/days/uploads", models.UploadPathRequest{
		FileName: "notes.txt",
		Content:  "just some text",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported path file format. Use GPX, KML, or GeoJSON.")
}

func TestRouter_GetDayPath_NotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/days/friday/path", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_GetMapConfig(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/days/friday/map-config", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var cfg mapconfig.MapConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	require.Len(t, cfg.Steps, 2)
	assert.Equal(t, "friday-step-1", cfg.Steps[0].ID)
	assert.NotEmpty(t, cfg.Stops)
	assert.Contains(t, cfg.WeatherNote, "Friday")
}

func TestRouter_GetMapConfig_UnknownDay(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/days/nope/map-config", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PatchMapConfig(t *testing.T) {
	router := newTestRouter(t, nil)

	patch := map[string]any{
		"weatherNote": "Cold and clear.",
		"steps": []map[string]any{
			{"id": "friday-step-1", "color": "#123456"},
		},
	}
	w := doJSON(t, router, http.MethodPost, "/v1/days/friday/map-config/patch", patch)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg mapconfig.MapConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "Cold and clear.", cfg.WeatherNote)
	require.Len(t, cfg.Steps, 2)
	assert.Equal(t, "#123456", cfg.Steps[0].Color)
}

func TestRouter_PatchMapConfig_InvalidJSON(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/days/friday/map-config/patch", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Patch is not valid JSON.")
}
