// Package pathfile converts uploaded GPX, KML, and GeoJSON documents into a
// normalized GeoJSON FeatureCollection of LineString features.
//
// GPX and KML are extracted with regular expressions rather than a full XML
// parser. That is a documented simplification: it tolerates the minimal
// exports phones produce but is fragile against CDATA, namespaces, and
// exotic attribute layouts.
package pathfile

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tripmapper/tripmapper/pkg/geom"
)

// Contract errors. The exact strings are part of the upload API contract and
// must not be reworded.
var (
	ErrEmptyFile         = errors.New("Path file is empty.")
	ErrUnsupportedFormat = errors.New("Unsupported path file format. Use GPX, KML, or GeoJSON.")
	ErrNoCoordinates     = errors.New("No valid path coordinates found in file.")
	ErrInvalidGeoJSON    = errors.New("Invalid GeoJSON: unable to parse JSON.")
)

// Format identifies a detected path file format.
type Format string

// Supported formats.
const (
	FormatGeoJSON Format = "geojson"
	FormatGPX     Format = "gpx"
	FormatKML     Format = "kml"
)

const sniffLength = 240

var (
	gpxSegmentRegex = regexp.MustCompile(`(?is)<trkseg\b.*?</trkseg>`)
	gpxPointRegex   = regexp.MustCompile(`(?i)<trkpt\b([^>]*)>`)
	gpxLatRegex     = regexp.MustCompile(`(?i)\blat\s*=\s*["']([^"']+)["']`)
	gpxLonRegex     = regexp.MustCompile(`(?i)\blon\s*=\s*["']([^"']+)["']`)
	kmlLineRegex    = regexp.MustCompile(`(?is)<LineString\b.*?<coordinates\b[^>]*>(.*?)</coordinates>.*?</LineString>`)
)

// Parse converts an uploaded path file into a FeatureCollection of
// LineString features, each tagged with a "source" property naming the
// input format. An empty input, an undetectable format, or a file yielding
// zero drawable lines is always an error, never a silent empty collection.
func Parse(text, filenameOrMimeHint string) (*geojson.FeatureCollection, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyFile
	}

	format, ok := DetectFormat(trimmed, filenameOrMimeHint)
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	var (
		lines []orb.LineString
		err   error
	)
	switch format {
	case FormatGeoJSON:
		lines, err = parseGeoJSON(trimmed)
	case FormatGPX:
		lines = parseGPX(trimmed)
	case FormatKML:
		lines = parseKML(trimmed)
	}
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoCoordinates
	}

	fc := geojson.NewFeatureCollection()
	for _, line := range lines {
		feature := geojson.NewFeature(line)
		feature.Properties = geojson.Properties{"source": string(format)}
		fc.Append(feature)
	}
	return fc, nil
}

// DetectFormat guesses the path file format from the filename or MIME hint
// and, failing that, from the leading content of the file itself.
func DetectFormat(text, filenameOrMimeHint string) (Format, bool) {
	hint := strings.ToLower(strings.TrimSpace(filenameOrMimeHint))
	lowered := strings.ToLower(text)
	if len(lowered) > sniffLength {
		lowered = lowered[:sniffLength]
	}

	switch {
	case strings.HasSuffix(hint, ".geojson"),
		strings.HasSuffix(hint, ".json"),
		strings.Contains(hint, "geo+json"),
		strings.Contains(hint, "application/json"),
		strings.HasPrefix(text, "{"):
		return FormatGeoJSON, true
	case strings.HasSuffix(hint, ".gpx"),
		strings.Contains(hint, "gpx"),
		strings.Contains(lowered, "<gpx"):
		return FormatGPX, true
	case strings.HasSuffix(hint, ".kml"),
		strings.Contains(hint, "kml"),
		strings.Contains(lowered, "<kml"),
		strings.Contains(lowered, "<linestring"):
		return FormatKML, true
	}
	return "", false
}

// parseGPX extracts one line per <trkseg> block. Documents without any
// <trkseg> fall back to scanning the whole text for <trkpt> tags, which
// tolerates minimal non-standard GPX.
func parseGPX(text string) []orb.LineString {
	var lines []orb.LineString
	for _, segment := range gpxSegmentRegex.FindAllString(text, -1) {
		if line := parseGPXTrackPoints(segment); line != nil {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		if line := parseGPXTrackPoints(text); line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseGPXTrackPoints(block string) orb.LineString {
	var points orb.LineString
	for _, match := range gpxPointRegex.FindAllStringSubmatch(block, -1) {
		attrs := match[1]
		latMatch := gpxLatRegex.FindStringSubmatch(attrs)
		lonMatch := gpxLonRegex.FindStringSubmatch(attrs)
		if latMatch == nil || lonMatch == nil {
			continue
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(latMatch[1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonMatch[1]), 64)
		if errLat != nil || errLon != nil || !geom.ValidLonLat(lon, lat) {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return geom.NormalizeLineString(points)
}

// parseKML extracts one line per <LineString> block. Coordinate tuples are
// whitespace-separated "lon,lat[,alt]" triples; altitude is ignored.
func parseKML(text string) []orb.LineString {
	var lines []orb.LineString
	for _, match := range kmlLineRegex.FindAllStringSubmatch(text, -1) {
		if line := parseKMLCoordinates(match[1]); line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseKMLCoordinates(raw string) orb.LineString {
	var points orb.LineString
	for _, tuple := range strings.Fields(raw) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLon != nil || errLat != nil {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return geom.NormalizeLineString(points)
}

// parseGeoJSON accepts a FeatureCollection, a single Feature, or a bare
// geometry, and recursively extracts LineString and MultiLineString
// geometries. Points and polygons are silently ignored; this parser only
// cares about paths.
func parseGeoJSON(text string) ([]orb.LineString, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, ErrInvalidGeoJSON
	}

	data := []byte(text)
	switch envelope.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, ErrInvalidGeoJSON
		}
		var lines []orb.LineString
		for _, feature := range fc.Features {
			if feature == nil {
				continue
			}
			lines = append(lines, extractLines(feature.Geometry)...)
		}
		return lines, nil
	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, ErrInvalidGeoJSON
		}
		return extractLines(feature.Geometry), nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			// Parsed as JSON but not as a geometry; treat it like a
			// document with no usable paths.
			return nil, nil
		}
		return extractLines(g.Geometry()), nil
	}
}

func extractLines(g orb.Geometry) []orb.LineString {
	switch shape := g.(type) {
	case orb.LineString:
		if line := geom.NormalizeLineString(shape); line != nil {
			return []orb.LineString{line}
		}
	case orb.MultiLineString:
		var lines []orb.LineString
		for _, part := range shape {
			if line := geom.NormalizeLineString(part); line != nil {
				lines = append(lines, line)
			}
		}
		return lines
	case orb.Collection:
		var lines []orb.LineString
		for _, member := range shape {
			lines = append(lines, extractLines(member)...)
		}
		return lines
	}
	return nil
}
