package trip

import (
	"regexp"
	"strings"
)

var (
	isoDayRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeText trims surrounding whitespace.
func NormalizeText(value string) string {
	return strings.TrimSpace(value)
}

// NormalizeKey lowercases, collapses runs of non-alphanumerics to single
// spaces, and trims. Two places whose names differ only in punctuation or
// casing normalize to the same key.
func NormalizeKey(value string) string {
	lowered := strings.ToLower(NormalizeText(value))
	return strings.TrimSpace(nonAlnumRegex.ReplaceAllString(lowered, " "))
}

// IsISODate reports whether the trimmed value looks like YYYY-MM-DD.
func IsISODate(value string) bool {
	return isoDayRegex.MatchString(strings.TrimSpace(value))
}

// TitleCase uppercases the first letter of each whitespace-separated word.
func TitleCase(value string) string {
	words := strings.Fields(NormalizeText(value))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Shorten truncates text to maxChars with a trailing ellipsis.
func Shorten(value string, maxChars int) string {
	text := NormalizeText(value)
	if len(text) <= maxChars {
		return text
	}
	return strings.TrimSpace(text[:maxChars-1]) + "..."
}

// SanitizeLocation trims all fields and reports false when both name and
// address are empty.
func SanitizeLocation(loc Location) (Location, bool) {
	out := Location{
		Name:    NormalizeText(loc.Name),
		Address: NormalizeText(loc.Address),
		Notes:   NormalizeText(loc.Notes),
	}
	if out.Name == "" && out.Address == "" {
		return Location{}, false
	}
	return out, true
}

// SanitizeItem trims all text fields and drops invalid locations. An
// explicit-null end time survives sanitization untouched.
func SanitizeItem(item Item) Item {
	out := Item{
		Title:     NormalizeText(item.Title),
		Type:      NormalizeText(item.Type),
		StartTime: NormalizeText(item.StartTime),
		Notes:     NormalizeText(item.Notes),
		Status:    NormalizeText(item.Status),
	}
	if item.EndTime.Null {
		out.EndTime = EndTime{Null: true}
	} else {
		out.EndTime = EndTime{Value: NormalizeText(item.EndTime.Value)}
	}
	for _, loc := range item.Locations {
		if clean, ok := SanitizeLocation(loc); ok {
			out.Locations = append(out.Locations, clean)
		}
	}
	return out
}

// SanitizeDay trims the day's fields and sanitizes its items. It reports
// false when the date is not a valid ISO day; such days are dropped rather
// than defaulted.
func SanitizeDay(day Day) (Day, bool) {
	date := NormalizeText(day.Date)
	if !IsISODate(date) {
		return Day{}, false
	}
	out := Day{
		Date:         date,
		Title:        NormalizeText(day.Title),
		BaseLocation: NormalizeText(day.BaseLocation),
		Items:        make([]Item, 0, len(day.Items)),
	}
	for _, item := range day.Items {
		out.Items = append(out.Items, SanitizeItem(item))
	}
	return out, true
}

// SanitizeTrip produces a structurally valid, defaulted trip model from
// arbitrary input. It is idempotent: sanitizing a sanitized trip is a no-op.
func SanitizeTrip(t Trip) Trip {
	out := Trip{
		TripName:    NormalizeText(t.TripName),
		Timezone:    NormalizeText(t.Timezone),
		LastUpdated: NormalizeText(t.LastUpdated),
		Days:        make([]Day, 0, len(t.Days)),
	}
	for _, day := range t.Days {
		if clean, ok := SanitizeDay(day); ok {
			out.Days = append(out.Days, clean)
		}
	}
	return out
}

// DayByDate returns the first day with the given date, matching the
// first-occurrence-wins lookup rule for duplicate dates.
func DayByDate(t Trip, date string) (Day, bool) {
	for _, day := range t.Days {
		if day.Date == date {
			return day, true
		}
	}
	return Day{}, false
}
