// Package trip provides the itinerary document model and its sanitizer.
package trip

import "encoding/json"

// Trip is the top-level itinerary container, immutable once loaded except
// through sanitization.
type Trip struct {
	TripName    string `json:"trip_name"`
	Timezone    string `json:"timezone"`
	LastUpdated string `json:"last_updated"`
	Days        []Day  `json:"days"`
}

// Day is one calendar day of the trip. A Day without a valid ISO date is
// dropped during sanitization.
type Day struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	BaseLocation string `json:"base_location"`
	Items        []Item `json:"items"`
}

// Item is one itinerary time-block within a Day.
type Item struct {
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	StartTime string     `json:"start_time"`
	EndTime   EndTime    `json:"end_time"`
	Notes     string     `json:"notes"`
	Status    string     `json:"status"`
	Locations []Location `json:"locations"`
}

// Location is a named or addressed place referenced by an Item. Locations
// with neither a name nor an address are dropped during sanitization.
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// EndTime distinguishes three states of an item's end_time field: an
// explicit JSON null means "open-ended" (rendered as "HH:MM+"), an empty or
// missing string means "unknown", and any other string is the end time.
type EndTime struct {
	// Null is true only for an explicit JSON null.
	Null  bool
	Value string
}

// OpenEnded reports whether the end time was an explicit null.
func (e EndTime) OpenEnded() bool { return e.Null }

// UnmarshalJSON tolerates wrong-typed values by coercing them to the empty
// string, mirroring the trip sanitizer's best-effort posture.
func (e *EndTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = EndTime{Null: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*e = EndTime{}
		return nil
	}
	*e = EndTime{Value: s}
	return nil
}

// MarshalJSON round-trips the explicit-null state.
func (e EndTime) MarshalJSON() ([]byte, error) {
	if e.Null {
		return []byte("null"), nil
	}
	return json.Marshal(e.Value)
}
