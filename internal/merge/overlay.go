package merge

import (
	"encoding/json"
	"sort"
)

// record is one incoming item split into its top-level keys.
type record struct {
	id   string
	keys map[string]json.RawMessage
}

// decodeRecord splits an incoming item. Items that are not objects, or whose
// id is missing, empty or not a string, are unusable.
func decodeRecord(raw json.RawMessage) (record, bool) {
	if !isObject(raw) {
		return record{}, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return record{}, false
	}
	id := asString(keys["id"])
	if id == "" {
		return record{}, false
	}
	return record{id: id, keys: keys}, true
}

// overlay returns base with every key of rec applied on top, shallowly. Each
// key is decoded on its own, so a value of the wrong type leaves that one
// field at its base value instead of failing the item. JSON null leaves the
// field unchanged.
func overlay[T any](base T, rec record) T {
	keys := make([]string, 0, len(rec.keys))
	for k := range rec.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := base
	for _, k := range keys {
		one, err := json.Marshal(map[string]json.RawMessage{k: rec.keys[k]})
		if err != nil {
			continue
		}
		next := out
		if err := json.Unmarshal(one, &next); err != nil {
			continue
		}
		out = next
	}
	return out
}

// overlaySettings applies a raw settings object onto s. Only keys that name a
// field of s take effect; unknown keys are dropped.
func overlaySettings[T any](s T, raw json.RawMessage) T {
	if raw == nil {
		return s
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return s
	}
	return overlay(s, record{keys: keys})
}
