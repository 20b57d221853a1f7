package mapconfig

import (
	"encoding/json"
	"errors"
)

// Patch application errors. Thrown synchronously so an editor can show the
// message without touching the live config.
var (
	ErrPatchInvalidJSON = errors.New("Patch is not valid JSON.")
	ErrPatchNotObject   = errors.New("Patch must be a JSON object.")
)

// The array-valued config sections that merge by entry id.
var patchSections = []string{"steps", "stops", "staticPoints", "parkWaypoints", "routes", "zones"}

var patchScalars = []string{"weatherNote", "googleMapsUrl"}

// ApplyPatch merges a partial user edit onto a base config. Array sections
// merge by entry id: matched entries deep-merge (patch fields win, nested
// objects merge recursively, arrays in the patch replace arrays in the
// base), unmatched patch entries append, and base-only entries follow in
// their original order. Scalars are overwritten only when present and
// string-typed. The merged result is re-decoded entry by entry, dropping
// anything malformed, then sanitized; patch data is never trusted to be
// well-formed. The base is not mutated.
func ApplyPatch(base *MapConfig, patchJSON []byte) (*MapConfig, error) {
	var raw any
	if err := json.Unmarshal(patchJSON, &raw); err != nil {
		return nil, ErrPatchInvalidJSON
	}
	patch, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrPatchNotObject
	}

	merged, err := configToMap(base)
	if err != nil {
		return nil, err
	}

	for _, key := range patchScalars {
		if value, ok := patch[key].(string); ok {
			merged[key] = value
		}
	}
	for _, section := range patchSections {
		patchEntries, ok := patch[section].([]any)
		if !ok {
			continue
		}
		baseEntries, _ := merged[section].([]any)
		merged[section] = mergeEntriesByID(baseEntries, patchEntries)
	}

	return SanitizeConfig(decodeConfig(merged)), nil
}

func configToMap(cfg *MapConfig) (map[string]any, error) {
	if cfg == nil {
		cfg = &MapConfig{}
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// mergeEntriesByID produces patch-specified order first, then base-only
// entries in their original order.
func mergeEntriesByID(base, patch []any) []any {
	baseByID := make(map[string]map[string]any)
	for _, entry := range base {
		if obj, ok := entry.(map[string]any); ok {
			if id := entryID(obj); id != "" {
				baseByID[id] = obj
			}
		}
	}

	out := make([]any, 0, len(base)+len(patch))
	patched := make(map[string]bool)
	for _, entry := range patch {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := entryID(obj)
		if existing, found := baseByID[id]; id != "" && found {
			out = append(out, deepMergeObjects(existing, obj))
		} else {
			out = append(out, obj)
		}
		if id != "" {
			patched[id] = true
		}
	}
	for _, entry := range base {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id := entryID(obj); id == "" || !patched[id] {
			out = append(out, obj)
		}
	}
	return out
}

func entryID(obj map[string]any) string {
	id, _ := obj["id"].(string)
	return id
}

// deepMergeObjects merges src over dst without mutating either. Nested
// objects merge recursively; any other value, arrays included, replaces.
func deepMergeObjects(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for key, value := range dst {
		out[key] = value
	}
	for key, value := range src {
		srcObj, srcIsObj := value.(map[string]any)
		dstObj, dstIsObj := out[key].(map[string]any)
		if srcIsObj && dstIsObj {
			out[key] = deepMergeObjects(dstObj, srcObj)
			continue
		}
		out[key] = value
	}
	return out
}

// decodeConfig rebuilds a typed config from the merged map, one entry at a
// time so a single malformed entry is dropped instead of failing the whole
// document.
func decodeConfig(raw map[string]any) *MapConfig {
	cfg := &MapConfig{}
	cfg.WeatherNote, _ = raw["weatherNote"].(string)
	cfg.GoogleMapsURL, _ = raw["googleMapsUrl"].(string)
	cfg.Steps = decodeEntries[Step](raw["steps"])
	cfg.Stops = decodeEntries[Stop](raw["stops"])
	cfg.StaticPoints = decodeEntries[StaticPoint](raw["staticPoints"])
	cfg.ParkWaypoints = decodeEntries[ParkWaypoint](raw["parkWaypoints"])
	cfg.Routes = decodeEntries[Route](raw["routes"])
	cfg.Zones = decodeEntries[Zone](raw["zones"])
	return cfg
}

func decodeEntries[T any](value any) []T {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []T
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}
