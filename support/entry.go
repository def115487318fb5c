package support

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flag describes a runtime flag that must be set for an implementation to
// be available.
type Flag struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	ValueToSet string `json:"value_to_set,omitempty"`
}

// Entry is one support entry for one browser.
type Entry struct {
	VersionAdded          Value
	VersionRemoved        Value
	Prefix                string
	AlternativeName       string
	PartialImplementation bool
	Flags                 []Flag
	// Notes holds the entry's notes. A single string in the source becomes a
	// one-element slice.
	Notes []string
	// Raw is the entry exactly as it appeared in the source.
	Raw json.RawMessage
}

// UnmarshalJSON decodes an entry object. Unknown keys are kept in Raw only.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("support: entry must be an object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("support: entry must be an object, got null")
	}

	out := Entry{Raw: append(json.RawMessage(nil), data...)}
	for key, raw := range fields {
		var err error
		switch key {
		case "version_added":
			err = out.VersionAdded.UnmarshalJSON(raw)
		case "version_removed":
			err = out.VersionRemoved.UnmarshalJSON(raw)
		case "prefix":
			err = unmarshalOptional(raw, &out.Prefix)
		case "alternative_name":
			err = unmarshalOptional(raw, &out.AlternativeName)
		case "partial_implementation":
			err = unmarshalOptional(raw, &out.PartialImplementation)
		case "flags":
			err = unmarshalFlags(raw, &out.Flags)
		case "notes":
			out.Notes, err = decodeNotes(raw)
		}
		if err != nil {
			return fmt.Errorf("support: field %s: %w", key, err)
		}
	}
	*e = out
	return nil
}

// MarshalJSON returns Raw when present so entries round-trip unchanged.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type wire struct {
		VersionAdded          Value    `json:"version_added"`
		VersionRemoved        *Value   `json:"version_removed,omitempty"`
		Prefix                string   `json:"prefix,omitempty"`
		AlternativeName       string   `json:"alternative_name,omitempty"`
		PartialImplementation bool     `json:"partial_implementation,omitempty"`
		Flags                 []Flag   `json:"flags,omitempty"`
		Notes                 []string `json:"notes,omitempty"`
	}
	w := wire{
		VersionAdded:          e.VersionAdded,
		Prefix:                e.Prefix,
		AlternativeName:       e.AlternativeName,
		PartialImplementation: e.PartialImplementation,
		Flags:                 e.Flags,
		Notes:                 e.Notes,
	}
	if !e.VersionRemoved.IsAbsent() {
		w.VersionRemoved = &e.VersionRemoved
	}
	return json.Marshal(w)
}

func unmarshalOptional(raw json.RawMessage, target any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func unmarshalFlags(raw json.RawMessage, flags *[]Flag) error {
	if err := unmarshalOptional(raw, flags); err == nil {
		return nil
	}
	// value_to_set is occasionally a boolean or number
	var loose []map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return err
	}
	out := make([]Flag, 0, len(loose))
	for _, m := range loose {
		f := Flag{}
		f.Type, _ = m["type"].(string)
		f.Name, _ = m["name"].(string)
		if v, ok := m["value_to_set"]; ok && v != nil {
			f.ValueToSet = fmt.Sprint(v)
		}
		out = append(out, f)
	}
	*flags = out
	return nil
}

func decodeNotes(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var note string
		if err := json.Unmarshal(trimmed, &note); err != nil {
			return nil, err
		}
		return []string{note}, nil
	}
	var notes []string
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Statement is the full support data for one browser: one entry, or a list
// of entries with the most relevant first.
type Statement struct {
	Entries []Entry
	// IsList reports whether the source held an array.
	IsList bool
}

// ParseStatement decodes a statement from raw JSON.
func ParseStatement(data []byte) (Statement, error) {
	var s Statement
	if err := s.UnmarshalJSON(data); err != nil {
		return Statement{}, err
	}
	return s, nil
}

// Primary returns the first entry, or an empty entry for an empty list.
func (s Statement) Primary() Entry {
	if len(s.Entries) == 0 {
		return Entry{}
	}
	return s.Entries[0]
}

// UnmarshalJSON decodes an object or an array of objects.
func (s *Statement) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("support: empty statement")
	}
	switch trimmed[0] {
	case '{':
		var e Entry
		if err := e.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*s = Statement{Entries: []Entry{e}}
		return nil
	case '[':
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*s = Statement{Entries: entries, IsList: true}
		return nil
	default:
		return fmt.Errorf("support: statement must be an object or array, got %s", trimmed)
	}
}

// MarshalJSON encodes a single entry as an object and a list as an array.
func (s Statement) MarshalJSON() ([]byte, error) {
	if !s.IsList && len(s.Entries) == 1 {
		return json.Marshal(s.Entries[0])
	}
	if s.Entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Entries)
}
