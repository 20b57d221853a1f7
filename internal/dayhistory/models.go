// Package dayhistory tracks the day tabs of the trip: a fixed set of
// calendar days plus user-uploaded days backed by path files, with a single
// active-day pointer persisted across sessions.
package dayhistory

import (
	"net/url"

	"github.com/paulmach/orb/geojson"
)

// Persistence contract for the metadata record.
const (
	MetaKey     = "nyc_day_history_meta_v1"
	MetaVersion = 1

	DefaultActiveDayID = "friday"
)

// Day kinds.
const (
	KindFixed    = "fixed"
	KindUploaded = "uploaded"
)

// Meta is the persisted day-history record. Uploaded days are stored sorted
// (date descending, then most recently updated first).
type Meta struct {
	Version      int           `json:"version"`
	ActiveDayID  string        `json:"activeDayId"`
	UploadedDays []UploadedDay `json:"uploadedDays"`
}

// UploadedDay is one user-created day. Its geometry lives in a separate
// path store keyed by the day id, never inside the metadata record.
type UploadedDay struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Kind       string `json:"kind"`
	SourceFile string `json:"sourceFile"`
	HasPath    bool   `json:"hasPath"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// FixedDay is a calendar-anchored day. Fixed days never carry uploaded
// paths and cannot be removed.
type FixedDay struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Href  string `json:"href"`
}

// Day is the tab view handed to clients: fixed and uploaded days in display
// order.
type Day struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Href      string `json:"href"`
	HasPath   bool   `json:"hasPath"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SaveOptions describes an upload. All fields are optional; blanks are
// derived from the existing day record or defaults.
type SaveOptions struct {
	Title      string
	Date       string
	DayID      string
	SourceFile string
}

// SaveResult is the outcome of a successful upload.
type SaveResult struct {
	Day               Day
	FeatureCollection *geojson.FeatureCollection
}

// DefaultFixedDays returns the three fixed NYC trip days. The first day is
// the site root; the rest link by day id.
func DefaultFixedDays() []FixedDay {
	return []FixedDay{
		{ID: "friday", Title: "Friday", Date: "2026-02-13", Href: "/"},
		{ID: "saturday", Title: "Saturday", Date: "2026-02-14", Href: "/?day=saturday"},
		{ID: "sunday", Title: "Sunday", Date: "2026-02-15", Href: "/?day=sunday"},
	}
}

func dayHref(id string) string {
	return "/?day=" + url.QueryEscape(id)
}

func defaultMeta() Meta {
	return Meta{
		Version:      MetaVersion,
		ActiveDayID:  DefaultActiveDayID,
		UploadedDays: []UploadedDay{},
	}
}
