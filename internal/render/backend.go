// Package render drives a map backend from a MapConfig. The drawing engine
// itself lives behind the Backend interface; this package owns coordinate
// resolution, overlay placement, and the staleness rules for concurrent
// re-renders.
package render

import (
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/pkg/geom"
)

// Backend is a map drawing engine. Implementations receive fully resolved
// geometry and must not reach back into the pipeline. All calls for one
// render happen sequentially from one goroutine; Destroy tears down every
// drawn feature and is the last call a backend receives.
type Backend interface {
	AddStop(stepIDs []string, stop PlacedStop)
	AddWaypoint(stepIDs []string, waypoint mapconfig.ParkWaypoint)
	AddRoute(stepIDs []string, route PlacedRoute)
	AddZone(stepIDs []string, zone mapconfig.Zone)
	SetActiveStep(stepID string)
	FitToData()
	Destroy()
}

// PlacedStop is a stop with its resolved coordinate.
type PlacedStop struct {
	mapconfig.Stop
	Coord geom.LatLng
}

// PlacedRoute is a route with resolved geometry, either curated coordinates
// or a polyline through its stops' placements.
type PlacedRoute struct {
	mapconfig.Route
	Coords []geom.LatLng
}
