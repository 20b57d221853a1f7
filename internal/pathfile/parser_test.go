package pathfile

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantLine = orb.LineString{
	{-73.9654, 40.7829},
	{-73.9632, 40.7794},
	{-73.9712, 40.7766},
}

const gpxDoc = `<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <trk><trkseg>
    <trkpt lat="40.7829" lon="-73.9654"></trkpt>
    <trkpt lat="40.7794" lon="-73.9632"></trkpt>
    <trkpt lat="40.7766" lon="-73.9712"></trkpt>
  </trkseg></trk>
</gpx>`

const kmlDoc = `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Placemark><LineString><coordinates>
    -73.9654,40.7829,0 -73.9632,40.7794,0 -73.9712,40.7766,0
  </coordinates></LineString></Placemark>
</kml>`

const geojsonDoc = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {},
    "geometry": {
      "type": "LineString",
      "coordinates": [[-73.9654,40.7829],[-73.9632,40.7794],[-73.9712,40.7766]]
    }
  }]
}`

func TestParse_SameLineAcrossFormats(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		hint   string
		source string
	}{
		{"gpx", gpxDoc, "walk.gpx", "gpx"},
		{"kml", kmlDoc, "walk.kml", "kml"},
		{"geojson", geojsonDoc, "walk.geojson", "geojson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := Parse(tt.text, tt.hint)
			require.NoError(t, err)
			require.Len(t, fc.Features, 1)

			feature := fc.Features[0]
			assert.Equal(t, tt.source, feature.Properties["source"])

			line, ok := feature.Geometry.(orb.LineString)
			require.True(t, ok, "geometry must be a LineString, got %T", feature.Geometry)
			require.Len(t, line, len(wantLine))
			for i, p := range wantLine {
				assert.InDelta(t, p[0], line[i][0], 1e-9)
				assert.InDelta(t, p[1], line[i][1], 1e-9)
			}
		})
	}
}

func TestParse_DetectsFromContentWithoutHint(t *testing.T) {
	for _, tt := range []struct {
		text string
		want string
	}{
		{gpxDoc, "gpx"},
		{kmlDoc, "kml"},
		{geojsonDoc, "geojson"},
	} {
		fc, err := Parse(tt.text, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, fc.Features[0].Properties["source"])
	}
}

func TestParse_GPXWithoutTrksegFallsBackToWholeDocument(t *testing.T) {
	doc := `<gpx><trkpt lat="40.1" lon="-73.1"/><trkpt lat="40.2" lon="-73.2"/></gpx>`
	fc, err := Parse(doc, "loose.gpx")
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	line := fc.Features[0].Geometry.(orb.LineString)
	assert.Len(t, line, 2)
}

func TestParse_GeoJSONVariants(t *testing.T) {
	bareGeometry := `{"type":"LineString","coordinates":[[-73.1,40.1],[-73.2,40.2]]}`
	fc, err := Parse(bareGeometry, "")
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)

	multi := `{"type":"Feature","properties":{},"geometry":{"type":"MultiLineString","coordinates":[[[-73.1,40.1],[-73.2,40.2]],[[-73.3,40.3],[-73.4,40.4]]]}}`
	fc, err = Parse(multi, "")
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2, "MultiLineString flattens to one feature per part")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		hint string
		want error
	}{
		{"empty", "   \n ", "walk.gpx", ErrEmptyFile},
		{"unknown format", "just some text", "notes.txt", ErrUnsupportedFormat},
		{"gpx without points", "<gpx><trk></trk></gpx>", "empty.gpx", ErrNoCoordinates},
		{"kml without lines", "<kml><Placemark></Placemark></kml>", "empty.kml", ErrNoCoordinates},
		{"geojson point only", `{"type":"Point","coordinates":[-73.1,40.1]}`, "", ErrNoCoordinates},
		{"single point line", `{"type":"LineString","coordinates":[[-73.1,40.1]]}`, "", ErrNoCoordinates},
		{"broken json", "{not json", "bad.geojson", ErrInvalidGeoJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, tt.hint)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestParse_DropsOutOfRangeAndDuplicatePoints(t *testing.T) {
	doc := `<gpx><trkseg>
	  <trkpt lat="95.0" lon="-73.1"/>
	  <trkpt lat="40.1" lon="-73.1"/>
	  <trkpt lat="40.1" lon="-73.1"/>
	  <trkpt lat="40.2" lon="-73.2"/>
	</trkseg></gpx>`
	fc, err := Parse(doc, "walk.gpx")
	require.NoError(t, err)
	line := fc.Features[0].Geometry.(orb.LineString)
	assert.Len(t, line, 2)
}
