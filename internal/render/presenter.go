package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/geocode"
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/pkg/geom"
)

// ErrSuperseded is returned when a newer render started while this one was
// still resolving coordinates. The stale render's backend is already
// destroyed when this is returned.
var ErrSuperseded = errors.New("render superseded by a newer one")

const overlayColor = "#5e6f87"

// BackendFactory creates a fresh backend for one render.
type BackendFactory func() Backend

// Presenter turns map configs into backend draw calls. Renders geocode
// stops one at a time; a monotonically increasing generation counter
// guarantees a stale render never clobbers a newer one's output, tearing
// down its own partially built backend instead.
type Presenter struct {
	geocoder   geocode.Geocoder
	newBackend BackendFactory
	log        zerolog.Logger

	generation atomic.Uint64

	mu        sync.Mutex
	active    Backend
	activeGen uint64
}

// NewPresenter creates a presenter. The geocoder may be nil, in which case
// every stop relies on its fallback coordinate.
func NewPresenter(geocoder geocode.Geocoder, factory BackendFactory, log zerolog.Logger) *Presenter {
	return &Presenter{
		geocoder:   geocoder,
		newBackend: factory,
		log:        log,
	}
}

// Render draws a config, optionally overlaying an uploaded path. It blocks
// while stops geocode; if a newer Render is started meanwhile, the stale one
// destroys its backend and returns ErrSuperseded.
func (p *Presenter) Render(ctx context.Context, cfg *mapconfig.MapConfig, overlay *geojson.FeatureCollection) error {
	if cfg == nil {
		return errors.New("nil map config")
	}

	gen := p.generation.Add(1)
	backend := p.newBackend()

	placed, err := p.placeStops(ctx, gen, cfg)
	if err != nil {
		backend.Destroy()
		return err
	}

	coordsByStop := make(map[string]geom.LatLng, len(placed))
	for _, stop := range placed {
		backend.AddStop(stop.StepIDs, stop)
		coordsByStop[stop.ID] = stop.Coord
	}

	for _, wp := range cfg.ParkWaypoints {
		backend.AddWaypoint(wp.StepIDs, wp)
	}

	for _, route := range cfg.Routes {
		coords := routeCoords(route, coordsByStop)
		if len(coords) < 2 {
			continue
		}
		backend.AddRoute(route.StepIDs, PlacedRoute{Route: route, Coords: coords})
	}

	for _, zone := range cfg.Zones {
		ring := geom.CloseRing(geom.NormalizeLine(zone.Coords))
		if len(ring) < 4 {
			continue
		}
		zone.Coords = ring
		backend.AddZone(zone.StepIDs, zone)
	}

	for _, route := range overlayRoutes(overlay) {
		backend.AddRoute(nil, route)
	}

	backend.FitToData()
	return p.promote(gen, backend)
}

// SetActiveStep highlights a step on the current render; an empty id clears
// the highlight.
func (p *Presenter) SetActiveStep(stepID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.SetActiveStep(stepID)
	}
}

// Close tears down the current render.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.Destroy()
		p.active = nil
	}
}

// placeStops resolves each stop's coordinate: live geocoding first, then
// the static fallback, else the stop is skipped (fewer markers, never a
// failed render). Staleness is checked after every suspension point.
func (p *Presenter) placeStops(ctx context.Context, gen uint64, cfg *mapconfig.MapConfig) ([]PlacedStop, error) {
	placed := make([]PlacedStop, 0, len(cfg.Stops))
	for _, stop := range cfg.Stops {
		coord, ok := p.resolveStop(ctx, stop)
		if gen != p.generation.Load() {
			return nil, ErrSuperseded
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ok {
			p.log.Debug().Str("stop_id", stop.ID).Msg("stop skipped, no resolvable coordinate")
			continue
		}
		placed = append(placed, PlacedStop{Stop: stop, Coord: coord})
	}
	return placed, nil
}

func (p *Presenter) resolveStop(ctx context.Context, stop mapconfig.Stop) (geom.LatLng, bool) {
	if p.geocoder != nil {
		if coord, ok := p.geocoder.Geocode(ctx, stop.Address); ok {
			return coord, true
		}
		if stop.Name != "" && stop.Name != stop.Address {
			if coord, ok := p.geocoder.Geocode(ctx, stop.Name); ok {
				return coord, true
			}
		}
	}
	if stop.Fallback != nil && stop.Fallback.Valid() {
		return *stop.Fallback, true
	}
	return geom.LatLng{}, false
}

// promote installs the finished backend as the visible render, unless a
// newer generation already won.
func (p *Presenter) promote(gen uint64, backend Backend) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen < p.activeGen || gen != p.generation.Load() {
		backend.Destroy()
		return ErrSuperseded
	}
	if p.active != nil {
		p.active.Destroy()
	}
	p.active = backend
	p.activeGen = gen
	return nil
}

// routeCoords prefers curated geometry, falling back to the polyline through
// the route's placed stops.
func routeCoords(route mapconfig.Route, coordsByStop map[string]geom.LatLng) []geom.LatLng {
	if len(route.Coords) >= 2 {
		return geom.NormalizeLine(route.Coords)
	}

	ids := make([]string, 0, len(route.ViaStopIDs)+2)
	if route.FromStopID != "" {
		ids = append(ids, route.FromStopID)
	}
	ids = append(ids, route.ViaStopIDs...)
	if route.ToStopID != "" {
		ids = append(ids, route.ToStopID)
	}

	coords := make([]geom.LatLng, 0, len(ids))
	for _, id := range ids {
		if coord, ok := coordsByStop[id]; ok {
			coords = append(coords, coord)
		}
	}
	return geom.NormalizeLine(coords)
}

// overlayRoutes converts an uploaded path FeatureCollection into drawable
// routes, one per LineString feature.
func overlayRoutes(overlay *geojson.FeatureCollection) []PlacedRoute {
	if overlay == nil {
		return nil
	}
	var routes []PlacedRoute
	for i, feature := range overlay.Features {
		if feature == nil {
			continue
		}
		line, ok := feature.Geometry.(orb.LineString)
		if !ok {
			continue
		}
		coords := make([]geom.LatLng, 0, len(line))
		for _, point := range line {
			coords = append(coords, geom.LatLng{point.Lat(), point.Lon()})
		}
		coords = geom.NormalizeLine(coords)
		if len(coords) < 2 {
			continue
		}
		note := "Recorded track overlay."
		if source, _ := feature.Properties["source"].(string); source != "" {
			note = "Recorded track overlay (" + source + ")."
		}
		routes = append(routes, PlacedRoute{
			Route: mapconfig.Route{
				ID:    fmt.Sprintf("uploaded-path-%d", i+1),
				Name:  "Uploaded path",
				Note:  note,
				Color: overlayColor,
			},
			Coords: coords,
		})
	}
	return routes
}
