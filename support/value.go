package support

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueKind is the JSON kind of a version value.
type ValueKind int

const (
	// Absent means the key was not present.
	Absent ValueKind = iota
	// Null is an explicit JSON null.
	Null
	// Bool is a JSON true or false.
	Bool
	// String is a JSON string.
	String
	// Other is any other JSON value, most often a number.
	Other
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a raw version_added or version_removed value.
// The zero Value is Absent.
type Value struct {
	Kind ValueKind
	// Bool holds the literal for Kind == Bool.
	Bool bool
	// Text holds the string for Kind == String, or the raw JSON for Kind == Other.
	Text string
}

// BoolValue returns a Value holding a JSON boolean.
func BoolValue(b bool) Value {
	return Value{Kind: Bool, Bool: b}
}

// StringValue returns a Value holding a JSON string.
func StringValue(s string) Value {
	return Value{Kind: String, Text: s}
}

// NullValue returns an explicit JSON null.
func NullValue() Value {
	return Value{Kind: Null}
}

// IsAbsent reports whether the value was missing from its entry.
func (v Value) IsAbsent() bool {
	return v.Kind == Absent
}

// String renders the value the way it appears in JSON. Absent renders as "".
func (v Value) String() string {
	switch v.Kind {
	case Null:
		return "null"
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case String:
		return fmt.Sprintf("%q", v.Text)
	case Other:
		return v.Text
	default:
		return ""
	}
}

// UnmarshalJSON decodes any JSON value. It never fails on well-formed JSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("support: empty value")
	}
	switch data[0] {
	case 'n':
		*v = NullValue()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("support: invalid value %s: %w", data, err)
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("support: invalid value %s: %w", data, err)
		}
		*v = StringValue(s)
	default:
		if !json.Valid(data) {
			return fmt.Errorf("support: invalid value %s", data)
		}
		*v = Value{Kind: Other, Text: string(data)}
	}
	return nil
}

// MarshalJSON encodes the value. Absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Bool:
		return json.Marshal(v.Bool)
	case String:
		return json.Marshal(v.Text)
	case Other:
		return []byte(v.Text), nil
	default:
		return []byte("null"), nil
	}
}

// isNumber reports whether raw JSON text is a number literal.
func isNumber(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	return (c >= '0' && c <= '9') || c == '-'
}
