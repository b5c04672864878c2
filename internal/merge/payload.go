// Package merge reconciles an imported workspace backup with the live
// workspace: parsing, merge-by-id, referential filtering, change summaries
// and the guarded import itself.
package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrParse reports input that is not valid JSON.
	ErrParse = errors.New("error parsing JSON file")
	// ErrFormat reports JSON lacking the projects, folders or documents arrays.
	ErrFormat = errors.New("invalid workspace file format: missing projects, folders, or documents")
)

// Payload is a loosely validated backup. Entity lists stay raw so every item
// can be overlaid key by key onto its local counterpart.
type Payload struct {
	Projects  []json.RawMessage
	Folders   []json.RawMessage
	Documents []json.RawMessage
	// Personas is nil when the backup has no personas array.
	Personas []json.RawMessage
	// Settings is nil unless the backup carries a settings object.
	Settings json.RawMessage

	ActiveProjectID  string
	ActiveDocumentID string
}

// Parse validates raw backup bytes. Malformed JSON fails with ErrParse; a
// document without array-typed projects, folders and documents fails with
// ErrFormat. Everything else is tolerated.
func Parse(data []byte) (*Payload, error) {
	if !json.Valid(data) {
		return nil, ErrParse
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		// valid JSON that is not an object
		return nil, ErrFormat
	}
	p := &Payload{}
	for _, f := range []struct {
		key string
		dst *[]json.RawMessage
	}{
		{"projects", &p.Projects},
		{"folders", &p.Folders},
		{"documents", &p.Documents},
	} {
		list, ok := asArray(top[f.key])
		if !ok {
			return nil, fmt.Errorf("%w (%s)", ErrFormat, f.key)
		}
		*f.dst = list
	}
	if list, ok := asArray(top["personas"]); ok {
		p.Personas = list
	}
	if isObject(top["settings"]) {
		p.Settings = top["settings"]
	}
	p.ActiveProjectID = asString(top["activeProjectId"])
	p.ActiveDocumentID = asString(top["activeDocumentId"])
	return p, nil
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	if list == nil {
		list = []json.RawMessage{}
	}
	return list, true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func asString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
