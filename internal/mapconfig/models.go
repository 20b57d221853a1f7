// Package mapconfig derives the render-facing map model from a sanitized
// itinerary day: steps, deduplicated stops, synthesized transfer routes,
// curated route overrides, and day-specific overlays.
package mapconfig

import "github.com/tripmapper/tripmapper/pkg/geom"

// MapConfig is the complete render contract handed to a map backend. It is
// the sole artifact crossing the pipeline/renderer boundary.
type MapConfig struct {
	WeatherNote   string         `json:"weatherNote"`
	GoogleMapsURL string         `json:"googleMapsUrl"`
	Steps         []Step         `json:"steps"`
	Stops         []Stop         `json:"stops"`
	StaticPoints  []StaticPoint  `json:"staticPoints"`
	ParkWaypoints []ParkWaypoint `json:"parkWaypoints"`
	Routes        []Route        `json:"routes"`
	Zones         []Zone         `json:"zones"`
}

// Step is one itinerary time-block in the rendered timeline.
type Step struct {
	ID    string `json:"id"`
	Time  string `json:"time"`
	Title string `json:"title"`
	Meta  string `json:"meta"`
	Color string `json:"color"`
}

// Stop is a deduplicated physical place marker. A place visited by more than
// one step renders once, with every referencing step id in StepIDs.
type Stop struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Time        string       `json:"time"`
	Address     string       `json:"address"`
	Note        string       `json:"note"`
	MarkerColor string       `json:"markerColor"`
	Fallback    *geom.LatLng `json:"fallback"`
	StepIDs     []string     `json:"stepIds"`
}

// Route is a drawn path between stops, either synthesized from the itinerary
// or curated. Synthesized routes carry stop ids and no coordinates; the
// renderer resolves their geometry from the placed stops. Curated routes
// carry explicit coordinates.
type Route struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Time       string        `json:"time"`
	Note       string        `json:"note"`
	StepIDs    []string      `json:"stepIds"`
	Color      string        `json:"color"`
	Dashed     bool          `json:"dashed"`
	FromStopID string        `json:"fromStopId,omitempty"`
	ToStopID   string        `json:"toStopId,omitempty"`
	ViaStopIDs []string      `json:"viaStopIds,omitempty"`
	Coords     []geom.LatLng `json:"coords,omitempty"`
}

// Zone is a flexible-area polygon overlay, not a route.
type Zone struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Time    string        `json:"time"`
	Note    string        `json:"note"`
	StepIDs []string      `json:"stepIds"`
	Color   string        `json:"color"`
	Coords  []geom.LatLng `json:"coords"`
}

// ParkWaypoint is a labeled static point of interest along a step's path.
type ParkWaypoint struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Note    string      `json:"note"`
	Coord   geom.LatLng `json:"coord"`
	StepIDs []string    `json:"stepIds"`
}

// StaticPoint is a fixed marker that belongs to no itinerary step.
type StaticPoint struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Time        string      `json:"time"`
	Address     string      `json:"address"`
	Note        string      `json:"note"`
	MarkerColor string      `json:"markerColor"`
	Coord       geom.LatLng `json:"coord"`
}
