package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Tristate is a boolean that can also be unknown.
type Tristate int8

const (
	// TristateUnknown means the source carried no value.
	TristateUnknown Tristate = iota
	// TristateTrue is an explicit true.
	TristateTrue
	// TristateFalse is an explicit false.
	TristateFalse
)

// TristateOf converts a bool.
func TristateOf(b bool) Tristate {
	if b {
		return TristateTrue
	}
	return TristateFalse
}

// Bool returns the value and whether it is known.
func (t Tristate) Bool() (value, known bool) {
	switch t {
	case TristateTrue:
		return true, true
	case TristateFalse:
		return false, true
	default:
		return false, false
	}
}

// Ptr returns a *bool, nil when unknown.
func (t Tristate) Ptr() *bool {
	v, ok := t.Bool()
	if !ok {
		return nil
	}
	return &v
}

// TristateFromPtr converts a nullable bool.
func TristateFromPtr(b *bool) Tristate {
	if b == nil {
		return TristateUnknown
	}
	return TristateOf(*b)
}

// String returns "true", "false" or "unknown".
func (t Tristate) String() string {
	switch t {
	case TristateTrue:
		return "true"
	case TristateFalse:
		return "false"
	default:
		return "unknown"
	}
}

// ParseTristate parses "true", "false", "unknown", "nil" or "null".
func ParseTristate(s string) (Tristate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return TristateTrue, nil
	case "false", "no":
		return TristateFalse, nil
	case "unknown", "nil", "null", "none":
		return TristateUnknown, nil
	default:
		return TristateUnknown, fmt.Errorf("feature: invalid tristate %q", s)
	}
}

// MarshalJSON encodes true, false or null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case TristateTrue:
		return []byte("true"), nil
	case TristateFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes true, false or null.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*t = TristateTrue
	case "false":
		*t = TristateFalse
	case "null":
		*t = TristateUnknown
	default:
		return fmt.Errorf("feature: tristate must be a boolean or null, got %s", data)
	}
	return nil
}

// MarshalYAML encodes the value as a bool or null.
func (t Tristate) MarshalYAML() (any, error) {
	return t.Ptr(), nil
}

var _ json.Marshaler = Tristate(0)
