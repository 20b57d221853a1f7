// Package geom provides coordinate validation and line normalization
// utilities shared by the path parser and the map config pipeline.
//
// Two coordinate orders are in play: map config geometry is [lat, lng]
// (the order map renderers consume), while GeoJSON geometry is lon/lat.
// LatLng covers the former; orb types cover the latter.
package geom

import (
	"encoding/json"
	"math"

	"github.com/paulmach/orb"
)

// LatLng is a [latitude, longitude] pair, JSON-encoded as a two-element array.
type LatLng [2]float64

// Lat returns the latitude component.
func (c LatLng) Lat() float64 { return c[0] }

// Lng returns the longitude component.
func (c LatLng) Lng() float64 { return c[1] }

// Valid reports whether both components are finite and within range.
func (c LatLng) Valid() bool {
	return validLatLng(c[0], c[1])
}

// UnmarshalJSON accepts any JSON array of two or more numbers and keeps the
// first two. Malformed values decode to an invalid coordinate instead of
// failing the enclosing document; sanitization drops them later.
func (c *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) < 2 {
		*c = LatLng{math.NaN(), math.NaN()}
		return nil
	}
	*c = LatLng{pair[0], pair[1]}
	return nil
}

func validLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidLonLat reports whether a lon/lat pair (GeoJSON order) is in range.
func ValidLonLat(lon, lat float64) bool {
	return validLatLng(lat, lon)
}

// NormalizeCoord validates a [lat, lng] pair. It returns false for pairs
// shorter than two elements, non-finite values, or out-of-range coordinates.
// Callers must treat a false result as "drop this point".
func NormalizeCoord(pair []float64) (LatLng, bool) {
	if len(pair) < 2 {
		return LatLng{}, false
	}
	if !validLatLng(pair[0], pair[1]) {
		return LatLng{}, false
	}
	return LatLng{pair[0], pair[1]}, true
}

// NormalizeLine drops invalid points and collapses consecutive duplicates.
// A line with fewer than 2 surviving points is not drawable and returns nil.
func NormalizeLine(points []LatLng) []LatLng {
	var out []LatLng
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// NormalizeLineString is NormalizeLine for lon/lat ordered GeoJSON lines.
func NormalizeLineString(ls orb.LineString) orb.LineString {
	var out orb.LineString
	for _, p := range ls {
		if !ValidLonLat(p.Lon(), p.Lat()) {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// CloseRing appends the first point when the ring is not already closed.
// Empty and already-closed inputs are returned unchanged.
func CloseRing(points []LatLng) []LatLng {
	if len(points) == 0 {
		return points
	}
	if points[0] == points[len(points)-1] {
		return points
	}
	return append(append([]LatLng(nil), points...), points[0])
}

const earthRadiusMeters = 6371000

// Length returns the total haversine length of a line in meters.
func Length(points []LatLng) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += haversineDistance(points[i-1], points[i])
	}
	return total
}

func haversineDistance(a, b LatLng) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lng() - a.Lng()) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
