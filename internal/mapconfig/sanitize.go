package mapconfig

import "github.com/tripmapper/tripmapper/pkg/geom"

// SanitizeConfig repairs a config assembled from untrusted input, such as
// the output of a patch merge. Entries without ids are dropped, colors are
// defaulted from the fallback palette, coordinate lists are normalized, and
// zones below the polygon minimum are removed. The result is safe to hand to
// a renderer.
func SanitizeConfig(cfg *MapConfig) *MapConfig {
	if cfg == nil {
		return nil
	}

	steps := cfg.Steps[:0:0]
	for i, step := range cfg.Steps {
		if step.ID == "" {
			continue
		}
		if step.Color == "" {
			step.Color = fallbackColors[i%len(fallbackColors)]
		}
		steps = append(steps, step)
	}
	cfg.Steps = steps

	stops := cfg.Stops[:0:0]
	for i, stop := range cfg.Stops {
		if stop.ID == "" {
			continue
		}
		if stop.MarkerColor == "" {
			stop.MarkerColor = fallbackColors[i%len(fallbackColors)]
		}
		if stop.Fallback != nil && !stop.Fallback.Valid() {
			stop.Fallback = nil
		}
		stops = append(stops, stop)
	}
	cfg.Stops = stops

	points := cfg.StaticPoints[:0:0]
	for _, point := range cfg.StaticPoints {
		if point.ID == "" || !point.Coord.Valid() {
			continue
		}
		points = append(points, point)
	}
	cfg.StaticPoints = points

	waypoints := cfg.ParkWaypoints[:0:0]
	for _, wp := range cfg.ParkWaypoints {
		if wp.ID == "" || !wp.Coord.Valid() {
			continue
		}
		waypoints = append(waypoints, wp)
	}
	cfg.ParkWaypoints = waypoints

	routes := cfg.Routes[:0:0]
	for i, route := range cfg.Routes {
		if route.ID == "" {
			continue
		}
		if route.Color == "" {
			route.Color = fallbackColors[i%len(fallbackColors)]
		}
		route.Coords = geom.NormalizeLine(route.Coords)
		routes = append(routes, route)
	}
	cfg.Routes = routes

	zones := cfg.Zones[:0:0]
	for i, zone := range cfg.Zones {
		if zone.ID == "" {
			continue
		}
		zone.Coords = geom.NormalizeLine(zone.Coords)
		if len(zone.Coords) < 3 {
			continue
		}
		if zone.Color == "" {
			zone.Color = fallbackColors[i%len(fallbackColors)]
		}
		zones = append(zones, zone)
	}
	cfg.Zones = zones

	return cfg
}
