package mapconfig

import "github.com/tripmapper/tripmapper/pkg/geom"

const defaultAddress = "New York, NY"

// dateToDayID anchors the fixed trip days. Dates outside this table get a
// generic "day" step-id prefix.
var dateToDayID = map[string]string{
	"2026-02-13": "friday",
	"2026-02-14": "saturday",
	"2026-02-15": "sunday",
}

var dayIDToDate = map[string]string{
	"friday":   "2026-02-13",
	"saturday": "2026-02-14",
	"sunday":   "2026-02-15",
}

var fixedDayTitles = map[string]string{
	"friday":   "Friday",
	"saturday": "Saturday",
	"sunday":   "Sunday",
}

// typeColor assigns a display color per itinerary block type.
var typeColor = map[string]string{
	"start":       "#2f6c59",
	"shopping":    "#8d6f46",
	"sightseeing": "#3b7a57",
	"dining":      "#9b643f",
	"museum":      "#4e6fae",
	"walk":        "#2b9aa0",
	"drinks":      "#86543a",
	"rest":        "#54758a",
	"transit":     "#2f5d8a",
	"event":       "#6d4d8f",
}

// fallbackColors is cycled by item index for unrecognized types.
var fallbackColors = []string{
	"#2f6c59",
	"#3b7a57",
	"#4e6fae",
	"#2f5d8a",
	"#2b9aa0",
	"#86543a",
	"#9b643f",
	"#5e6f87",
}

// knownCoords maps normalized addresses and venue names to coordinates, used
// as marker fallbacks when live geocoding fails or is unavailable. Keys must
// already be in normalized-key form.
var knownCoords = map[string]geom.LatLng{
	"119 w 56th st new york ny 10019":                     {40.7643285, -73.978572},
	"225 w 57th st new york ny 10019":                     {40.7663896, -73.9809959},
	"central park south 6th avenue new york ny 10019":     {40.7660004, -73.976709},
	"e 79th st 5th ave new york ny 10075":                 {40.776782, -73.9639664},
	"1271 3rd ave new york ny 10021":                      {40.7704584, -73.9597573},
	"1 e 70th st new york ny 10021":                       {40.7712536, -73.9670961},
	"440 w 33rd st new york ny 10001":                     {40.75331, -73.998415},
	"w 34th st 10th ave new york ny 10199":                {40.7542573, -73.9985956},
	"gansevoort st washington st new york ny 10014":       {40.7392395, -74.0081111},
	"102 bayard st new york ny 10013":                     {40.715962, -73.998309},
	"28 mott st new york ny 10013":                        {40.714686, -73.998527},
	"e 59th st 2nd ave new york ny 10022":                 {40.761558, -73.964783},
	"roosevelt island new york ny 10044":                  {40.761596, -73.949723},
	"30 rockefeller plaza new york ny 10112":              {40.75874, -73.978674},
	"151 w 51st st new york ny 10019":                     {40.761815, -73.981924},
	"241 e 24th st new york ny 10010":                     {40.739145, -73.983551},
	"88 2nd ave new york ny 10003":                        {40.727595, -73.987719},
	"brooklyn bridge pedestrian walkway entrance near city hall new york ny": {40.712628, -74.00528},
	"71 pineapple st brooklyn ny 11201":                   {40.695694, -73.994334},
	"219 w 49th st new york ny 10019":                     {40.76047, -73.983921},
	"bryant park new york ny 10018":                       {40.753597, -73.983233},
	"11 south st new york ny 10004":                       {40.703245, -74.005938},
	"vineapple":                                           {40.695694, -73.994334},
	"new york comedy club midtown":                        {40.739145, -73.983551},
	"frank":                                               {40.727595, -73.987719},
	"the river":                                           {40.715962, -73.998309},
	"peking duck house":                                   {40.714686, -73.998527},
	"fao schwarz":                                         {40.75874, -73.978674},
	"aldo sohm wine bar":                                  {40.761815, -73.981924},
	"roosevelt island tramway manhattan tramway plaza":    {40.761558, -73.964783},
}
