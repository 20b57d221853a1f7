package trip

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseTrip decodes a trip JSON document into a sanitized Trip. Decoding is
// deliberately loose: wrong-typed fields are coerced to their zero values
// and malformed days, items, and locations are dropped, never surfaced as
// errors. Only unparseable JSON fails.
func ParseTrip(data []byte) (Trip, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Trip{}, fmt.Errorf("parse trip JSON: %w", err)
	}
	return SanitizeTrip(tripFromAny(raw)), nil
}

// Load reads and parses a trip JSON document from disk.
func Load(path string) (Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trip{}, fmt.Errorf("read trip data: %w", err)
	}
	return ParseTrip(data)
}

func tripFromAny(raw any) Trip {
	obj := asObject(raw)
	t := Trip{
		TripName:    asString(obj["trip_name"]),
		Timezone:    asString(obj["timezone"]),
		LastUpdated: asString(obj["last_updated"]),
	}
	for _, entry := range asArray(obj["days"]) {
		t.Days = append(t.Days, dayFromAny(entry))
	}
	return t
}

func dayFromAny(raw any) Day {
	obj := asObject(raw)
	d := Day{
		Date:         asString(obj["date"]),
		Title:        asString(obj["title"]),
		BaseLocation: asString(obj["base_location"]),
	}
	for _, entry := range asArray(obj["items"]) {
		d.Items = append(d.Items, itemFromAny(entry))
	}
	return d
}

func itemFromAny(raw any) Item {
	obj := asObject(raw)
	item := Item{
		Title:     asString(obj["title"]),
		Type:      asString(obj["type"]),
		StartTime: asString(obj["start_time"]),
		Notes:     asString(obj["notes"]),
		Status:    asString(obj["status"]),
	}
	// An explicit null end_time is meaningful (open-ended block) and must
	// not collapse into the missing-field case.
	if value, present := obj["end_time"]; present && value == nil {
		item.EndTime = EndTime{Null: true}
	} else {
		item.EndTime = EndTime{Value: asString(value)}
	}
	for _, entry := range asArray(obj["locations"]) {
		locObj := asObject(entry)
		item.Locations = append(item.Locations, Location{
			Name:    asString(locObj["name"]),
			Address: asString(locObj["address"]),
			Notes:   asString(locObj["notes"]),
		})
	}
	return item
}

func asObject(value any) map[string]any {
	if obj, ok := value.(map[string]any); ok {
		return obj
	}
	return nil
}

func asArray(value any) []any {
	if arr, ok := value.([]any); ok {
		return arr
	}
	return nil
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
