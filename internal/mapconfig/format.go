package mapconfig

import (
	"net/url"
	"strings"

	"github.com/tripmapper/tripmapper/internal/trip"
)

// FormatStepTime renders an item's start/end pair as a timeline label. An
// explicit-null end means open-ended ("09:30+"); an empty end means unknown.
func FormatStepTime(item trip.Item) string {
	start := strings.TrimSpace(item.StartTime)
	switch {
	case start != "" && item.EndTime.OpenEnded():
		return start + "+"
	case start != "":
		end := strings.TrimSpace(item.EndTime.Value)
		if end != "" && end != start {
			return start + "-" + end
		}
		return start
	case !item.EndTime.OpenEnded() && strings.TrimSpace(item.EndTime.Value) != "":
		return "Until " + strings.TrimSpace(item.EndTime.Value)
	default:
		return "Time TBD"
	}
}

func statusLabel(status string) string {
	switch status {
	case "completed":
		return "Completed"
	case "tentative":
		return "Tentative"
	default:
		return ""
	}
}

const metaMaxChars = 96

// buildStepMeta assembles the one-line step summary: status, type, the first
// two location names, and shortened notes.
func buildStepMeta(item trip.Item, locations []trip.Location) string {
	var bits []string
	if status := statusLabel(item.Status); status != "" {
		bits = append(bits, status)
	}
	if kind := trip.TitleCase(item.Type); kind != "" {
		bits = append(bits, kind)
	}
	var names []string
	for _, loc := range locations {
		if loc.Name == "" {
			continue
		}
		names = append(names, loc.Name)
		if len(names) == 2 {
			break
		}
	}
	if len(names) > 0 {
		bits = append(bits, strings.Join(names, " -> "))
	}
	if item.Notes != "" {
		bits = append(bits, trip.Shorten(item.Notes, metaMaxChars))
	}
	return strings.Join(bits, " - ")
}

const bareMapsURL = "https://www.google.com/maps"

// BuildGoogleMapsURL builds a walking-directions deep link through the given
// points in visit order. Fewer than two non-empty points falls back to a
// bare maps URL.
func BuildGoogleMapsURL(points []string) string {
	var clean []string
	for _, point := range points {
		if trimmed := strings.TrimSpace(point); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) < 2 {
		return bareMapsURL
	}

	var sb strings.Builder
	sb.WriteString(bareMapsURL)
	sb.WriteString("/dir/?api=1&origin=")
	sb.WriteString(url.QueryEscape(clean[0]))
	sb.WriteString("&destination=")
	sb.WriteString(url.QueryEscape(clean[len(clean)-1]))
	if len(clean) > 2 {
		waypoints := make([]string, 0, len(clean)-2)
		for _, point := range clean[1 : len(clean)-1] {
			waypoints = append(waypoints, url.QueryEscape(point))
		}
		sb.WriteString("&waypoints=")
		sb.WriteString(strings.Join(waypoints, "|"))
	}
	sb.WriteString("&travelmode=walking")
	return sb.String()
}
