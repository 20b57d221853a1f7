package mapconfig

import (
	"regexp"

	"github.com/tripmapper/tripmapper/pkg/geom"
)

// CuratedRoute is a hand-authored route geometry bound to a step by matching
// the step title. Curated coordinates trace real-world paths (park interiors,
// the High Line) that straight-line synthesis cannot.
type CuratedRoute struct {
	ID     string
	Name   string
	Note   string
	Match  *regexp.Regexp
	Dashed bool
	Coords []geom.LatLng
}

// CuratedZone is a day-specific focus-area polygon bound to a step by title.
type CuratedZone struct {
	ID     string
	Name   string
	Time   string
	Note   string
	Color  string
	Match  *regexp.Regexp
	Coords []geom.LatLng
}

// DayOverrides is the per-date override table: curated routes that replace
// the synthesized route list wholesale, plus static waypoint and zone
// overlays. This is deliberately content, not logic; the patterns are tuned
// to the titles of one specific trip.
type DayOverrides struct {
	Routes        []CuratedRoute
	WaypointMatch *regexp.Regexp
	Waypoints     []ParkWaypoint
	Zones         []CuratedZone
}

// bindRoutes resolves each curated route against the built steps. It returns
// nil when nothing binds, in which case the synthesized routes stand.
func (o DayOverrides) bindRoutes(steps []Step) []Route {
	var routes []Route
	for _, curated := range o.Routes {
		step, ok := matchStep(steps, curated.Match)
		if !ok {
			continue
		}
		routes = append(routes, Route{
			ID:      curated.ID,
			Name:    curated.Name,
			Time:    step.Time,
			Note:    curated.Note,
			StepIDs: []string{step.ID},
			Color:   step.Color,
			Dashed:  curated.Dashed,
			Coords:  append([]geom.LatLng(nil), curated.Coords...),
		})
	}
	return routes
}

func (o DayOverrides) bindWaypoints(steps []Step) []ParkWaypoint {
	if o.WaypointMatch == nil || len(o.Waypoints) == 0 {
		return nil
	}
	step, ok := matchStep(steps, o.WaypointMatch)
	if !ok {
		return nil
	}
	waypoints := make([]ParkWaypoint, len(o.Waypoints))
	for i, wp := range o.Waypoints {
		wp.StepIDs = []string{step.ID}
		waypoints[i] = wp
	}
	return waypoints
}

func (o DayOverrides) bindZones(steps []Step) []Zone {
	var zones []Zone
	for _, curated := range o.Zones {
		step, ok := matchStep(steps, curated.Match)
		if !ok {
			continue
		}
		zones = append(zones, Zone{
			ID:      curated.ID,
			Name:    curated.Name,
			Time:    curated.Time,
			Note:    curated.Note,
			StepIDs: []string{step.ID},
			Color:   curated.Color,
			Coords:  append([]geom.LatLng(nil), curated.Coords...),
		})
	}
	return zones
}

func matchStep(steps []Step, pattern *regexp.Regexp) (Step, bool) {
	if pattern == nil {
		return Step{}, false
	}
	for _, step := range steps {
		if pattern.MatchString(step.Title) {
			return step, true
		}
	}
	return Step{}, false
}

// Anchor coordinates shared between curated routes.
var (
	coordHotel   = geom.LatLng{40.7643285, -73.978572}
	coordEJ      = geom.LatLng{40.7704584, -73.9597573}
	coordFrick   = geom.LatLng{40.7712536, -73.9670961}
	coordCiSiamo = geom.LatLng{40.75331, -73.998415}
)

// nycOverrides holds the override tables for the fixed NYC trip days. Only
// Friday carries curated content.
var nycOverrides = map[string]DayOverrides{
	"2026-02-13": {
		Routes: []CuratedRoute{
			{
				ID:    "central-park-interior-walk",
				Name:  "Central Park interior walk",
				Note:  "Scenic route via interior paths (Pond, Mall, Bethesda, Bow Bridge), then east exit.",
				Match: regexp.MustCompile(`(?i)central park walk`),
				Coords: []geom.LatLng{
					coordHotel,
					{40.76456, -73.97645},
					{40.76459, -73.97361},
					{40.76681, -73.97332},
					{40.76842, -73.97326},
					{40.7714, -73.97383},
					{40.77293, -73.97228},
					{40.77404, -73.97012},
					{40.77544, -73.97158},
					{40.77479, -73.96925},
					{40.77394, -73.96775},
					{40.77274, -73.96615},
					{40.77228, -73.96357},
					{40.77156, -73.96085},
					coordEJ,
				},
			},
			{
				ID:    "ej-to-frick-walk",
				Name:  "Walk: EJ's to The Frick",
				Note:  "Short Upper East Side walk west toward Fifth Avenue.",
				Match: regexp.MustCompile(`(?i)frick`),
				Coords: []geom.LatLng{
					coordEJ,
					{40.77042, -73.9632},
					{40.77077, -73.96588},
					coordFrick,
				},
			},
			{
				ID:     "frick-to-ci-siamo-transit",
				Name:   "Transit/Ride: Frick to Ci Siamo",
				Note:   "Recommended as subway/ride transfer (not walking).",
				Match:  regexp.MustCompile(`(?i)ci siamo`),
				Dashed: true,
				Coords: []geom.LatLng{
					coordFrick,
					{40.76795, -73.97765},
					{40.7587, -73.98548},
					{40.75479, -73.99012},
					coordCiSiamo,
				},
			},
			{
				ID:    "high-line-southbound",
				Name:  "High Line southbound walk",
				Note:  "Southbound segment from the Hudson Yards area into Meatpacking.",
				Match: regexp.MustCompile(`(?i)high line`),
				Coords: []geom.LatLng{
					{40.75386, -74.00674},
					{40.7522, -74.00565},
					{40.74944, -74.00476},
					{40.74632, -74.00422},
					{40.7439, -74.00402},
					{40.74207, -74.00527},
					{40.74095, -74.00721},
					{40.73958, -74.00899},
				},
			},
		},
		WaypointMatch: regexp.MustCompile(`(?i)central park walk`),
		Waypoints: []ParkWaypoint{
			{
				ID:    "cp-entrance",
				Label: "Park Entrance (59th & 6th)",
				Note:  "Enter Central Park near 59th Street & 6th Avenue.",
				Coord: geom.LatLng{40.7660004, -73.976709},
			},
			{
				ID:    "cp-pond",
				Label: "The Pond",
				Note:  "Scenic first segment.",
				Coord: geom.LatLng{40.76681, -73.97332},
			},
			{
				ID:    "cp-mall",
				Label: "The Mall",
				Note:  "Tree-lined interior promenade.",
				Coord: geom.LatLng{40.7714, -73.97383},
			},
			{
				ID:    "cp-bethesda",
				Label: "Bethesda Terrace",
				Note:  "Iconic Central Park midpoint.",
				Coord: geom.LatLng{40.77404, -73.97012},
			},
			{
				ID:    "cp-exit",
				Label: "Park Exit (79th & 5th)",
				Note:  "Exit toward the Upper East Side.",
				Coord: geom.LatLng{40.776782, -73.9639664},
			},
		},
		Zones: []CuratedZone{
			{
				ID:    "high-line-zone",
				Name:  "High Line corridor",
				Time:  "15:30-17:00",
				Note:  "Hudson Yards to Meatpacking focus zone.",
				Color: "#2b9aa0",
				Match: regexp.MustCompile(`(?i)^high line walk southbound$`),
				Coords: []geom.LatLng{
					{40.7549, -73.9993},
					{40.7549, -74.0079},
					{40.7391, -74.0094},
					{40.7391, -74.0075},
					{40.7484, -74.0048},
					{40.7537, -74.0029},
				},
			},
			{
				ID:    "drinks-zone",
				Name:  "Drinks anchor area",
				Time:  "17:00",
				Note:  "Chelsea/Meatpacking anchor area.",
				Color: "#b95f3c",
				Match: regexp.MustCompile(`(?i)^drinks anchor \(chelsea/meatpacking\)$`),
				Coords: []geom.LatLng{
					{40.7402, -74.00865},
					{40.7402, -74.00745},
					{40.7387, -74.00745},
					{40.7387, -74.00865},
				},
			},
		},
	},
}
