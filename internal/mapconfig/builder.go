package mapconfig

import (
	"fmt"
	"slices"

	"github.com/tripmapper/tripmapper/internal/trip"
	"github.com/tripmapper/tripmapper/pkg/geom"
)

// Builder turns a sanitized day into a MapConfig. The tables it carries
// (fixed days, color palette, known coordinates, curated overrides) are
// configuration, not logic; NewBuilder wires the NYC trip defaults.
type Builder struct {
	DayIDByDate    map[string]string
	DateByDayID    map[string]string
	FixedTitles    map[string]string
	TypeColors     map[string]string
	FallbackColors []string
	KnownCoords    map[string]geom.LatLng
	DefaultAddress string
	Overrides      map[string]DayOverrides
}

// NewBuilder returns a builder configured for the fixed NYC trip days.
func NewBuilder() *Builder {
	return &Builder{
		DayIDByDate:    dateToDayID,
		DateByDayID:    dayIDToDate,
		FixedTitles:    fixedDayTitles,
		TypeColors:     typeColor,
		FallbackColors: fallbackColors,
		KnownCoords:    knownCoords,
		DefaultAddress: defaultAddress,
		Overrides:      nycOverrides,
	}
}

// stepBoundary carries the per-step data needed for transfer synthesis after
// all items have been processed.
type stepBoundary struct {
	stepID    string
	title     string
	itemType  string
	startTime string
	time      string
	color     string
	stopIDs   []string
	status    string
}

// BuildFromDay derives the full render model for one day. It returns nil
// when the day fails sanitization (invalid date); everything else degrades
// instead of failing.
func (b *Builder) BuildFromDay(day trip.Day) *MapConfig {
	clean, ok := trip.SanitizeDay(day)
	if !ok {
		return nil
	}

	dayID := b.DayIDByDate[clean.Date]
	stepPrefix := dayID
	if stepPrefix == "" {
		stepPrefix = "day"
	}

	var (
		steps      []Step
		stops      []Stop
		routes     []Route
		boundaries []stepBoundary
		visitOrder []string
	)
	stopIndexByKey := make(map[string]int)

	for i, item := range clean.Items {
		stepID := fmt.Sprintf("%s-step-%d", stepPrefix, i+1)
		color := b.colorForItem(item, i)
		locations := b.ensureLocations(item, clean)
		timeLabel := FormatStepTime(item)
		title := item.Title
		if title == "" {
			title = fmt.Sprintf("Stop %d", i+1)
		}

		steps = append(steps, Step{
			ID:    stepID,
			Time:  timeLabel,
			Title: title,
			Meta:  buildStepMeta(item, locations),
			Color: color,
		})

		var stopIDs []string
		for j, loc := range locations {
			address := b.resolveAddress(loc, clean)
			visitOrder = append(visitOrder, visitPoint(loc, address))

			// Places visited more than once in a day collapse into one
			// marker annotated with every referencing step.
			key := trip.NormalizeKey(loc.Name) + "|" + trip.NormalizeKey(address)
			if idx, seen := stopIndexByKey[key]; seen {
				stop := &stops[idx]
				if !slices.Contains(stop.StepIDs, stepID) {
					stop.StepIDs = append(stop.StepIDs, stepID)
				}
				if !slices.Contains(stopIDs, stop.ID) {
					stopIDs = append(stopIDs, stop.ID)
				}
				continue
			}

			name := loc.Name
			if name == "" {
				name = title
			}
			stopID := fmt.Sprintf("%s-stop-%d", stepID, j+1)
			stops = append(stops, Stop{
				ID:          stopID,
				Name:        name,
				Time:        timeLabel,
				Address:     address,
				Note:        stopNote(loc, item),
				MarkerColor: color,
				Fallback:    b.fallbackFor(loc),
				StepIDs:     []string{stepID},
			})
			stopIndexByKey[key] = len(stops) - 1
			stopIDs = append(stopIDs, stopID)
		}

		boundaries = append(boundaries, stepBoundary{
			stepID:    stepID,
			title:     title,
			itemType:  item.Type,
			startTime: item.StartTime,
			time:      timeLabel,
			color:     color,
			stopIDs:   stopIDs,
			status:    item.Status,
		})

		if len(stopIDs) > 1 {
			note := item.Notes
			if note == "" {
				note = "In-step movement."
			}
			routes = append(routes, Route{
				ID:         stepID + "-route",
				Name:       title,
				Time:       timeLabel,
				Note:       note,
				StepIDs:    []string{stepID},
				Color:      color,
				Dashed:     item.Type == "transit",
				FromStopID: stopIDs[0],
				ToStopID:   stopIDs[len(stopIDs)-1],
				ViaStopIDs: stopIDs[1 : len(stopIDs)-1],
			})
		}
	}

	routes = append(routes, synthesizeTransfers(boundaries)...)

	overrides := b.Overrides[clean.Date]
	if curated := overrides.bindRoutes(steps); len(curated) > 0 {
		routes = curated
	}

	tentative := 0
	for _, item := range clean.Items {
		if item.Status == "tentative" {
			tentative++
		}
	}

	return &MapConfig{
		WeatherNote:   weatherNote(b.dayTitle(dayID, clean), tentative),
		GoogleMapsURL: BuildGoogleMapsURL(visitOrder),
		Steps:         steps,
		Stops:         stops,
		StaticPoints:  []StaticPoint{},
		ParkWaypoints: overrides.bindWaypoints(steps),
		Routes:        routes,
		Zones:         overrides.bindZones(steps),
	}
}

// synthesizeTransfers links consecutive steps, last stop to first stop. A
// transfer is suppressed when either step has no stops, when the boundary
// stops are the same place, or when both steps share one non-empty start
// time (simultaneous blocks, nothing to travel between).
func synthesizeTransfers(boundaries []stepBoundary) []Route {
	var routes []Route
	for i := 0; i+1 < len(boundaries); i++ {
		current, next := boundaries[i], boundaries[i+1]
		if len(current.stopIDs) == 0 || len(next.stopIDs) == 0 {
			continue
		}
		from := current.stopIDs[len(current.stopIDs)-1]
		to := next.stopIDs[0]
		if from == to {
			continue
		}
		if current.startTime != "" && current.startTime == next.startTime {
			continue
		}

		transitLike := next.itemType == "transit" || next.itemType == "rest" || next.itemType == "event"
		note := "Walking segment."
		if transitLike {
			note = "Transit/ride segment."
		}
		routes = append(routes, Route{
			ID:         current.stepID + "-to-" + next.stepID,
			Name:       "Transfer: " + current.title + " -> " + next.title,
			Time:       current.time + " -> " + next.time,
			Note:       note,
			StepIDs:    []string{next.stepID},
			Color:      next.color,
			Dashed:     transitLike,
			FromStopID: from,
			ToStopID:   to,
		})
	}
	return routes
}

func (b *Builder) colorForItem(item trip.Item, index int) string {
	if color, ok := b.TypeColors[item.Type]; ok {
		return color
	}
	return b.FallbackColors[index%len(b.FallbackColors)]
}

// ensureLocations guarantees at least one location per item so every step
// gets a marker, synthesizing a placeholder at the day's base when needed.
func (b *Builder) ensureLocations(item trip.Item, day trip.Day) []trip.Location {
	if len(item.Locations) > 0 {
		return item.Locations
	}
	name := item.Title
	if name == "" {
		name = "Stop"
	}
	address := day.BaseLocation
	if address == "" {
		address = b.DefaultAddress
	}
	return []trip.Location{{Name: name, Address: address}}
}

func (b *Builder) resolveAddress(loc trip.Location, day trip.Day) string {
	if loc.Address != "" {
		return loc.Address
	}
	if day.BaseLocation != "" {
		return day.BaseLocation
	}
	return b.DefaultAddress
}

func (b *Builder) fallbackFor(loc trip.Location) *geom.LatLng {
	if coord, ok := b.KnownCoords[trip.NormalizeKey(loc.Address)]; ok {
		return &coord
	}
	if coord, ok := b.KnownCoords[trip.NormalizeKey(loc.Name)]; ok {
		return &coord
	}
	return nil
}

func (b *Builder) dayTitle(dayID string, day trip.Day) string {
	if title, ok := b.FixedTitles[dayID]; ok {
		return title
	}
	if day.Title != "" {
		return day.Title
	}
	return "Day"
}

// DayIDForDate maps a date to its fixed day id, or "" when the date is not a
// fixed trip day.
func (b *Builder) DayIDForDate(date string) string {
	return b.DayIDByDate[date]
}

// DateForDayID resolves a fixed day id or a raw ISO date to the date used
// for day lookup, or "" when the id is unresolvable.
func (b *Builder) DateForDayID(dayID string) string {
	if date, ok := b.DateByDayID[dayID]; ok {
		return date
	}
	if trip.IsISODate(dayID) {
		return dayID
	}
	return ""
}

func stopNote(loc trip.Location, item trip.Item) string {
	if loc.Notes != "" {
		return loc.Notes
	}
	if item.Notes != "" {
		return item.Notes
	}
	if item.Status == "tentative" {
		return "Tentative plan."
	}
	return "Planned stop."
}

func visitPoint(loc trip.Location, resolvedAddress string) string {
	if resolvedAddress != "" {
		return resolvedAddress
	}
	return loc.Name
}

func weatherNote(dayTitle string, tentative int) string {
	if tentative > 0 {
		return fmt.Sprintf("%s plan loaded from trip JSON. %d tentative block(s) are marked in the timeline.", dayTitle, tentative)
	}
	return fmt.Sprintf("%s timeline loaded from trip JSON.", dayTitle)
}
