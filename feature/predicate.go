package feature

import (
	"fmt"
	"strings"

	"github.com/erraggy/bcdtools/support"
)

// Predicate reports whether a record matches.
type Predicate func(*Record) bool

// Field names an optional string field of a record.
type Field int

const (
	FieldDescription Field = iota
	FieldMDNURL
	FieldSpecURL
)

// String returns the source key of the field.
func (f Field) String() string {
	switch f {
	case FieldDescription:
		return "description"
	case FieldMDNURL:
		return "mdn_url"
	case FieldSpecURL:
		return "spec_url"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField parses "description", "mdn_url" or "spec_url".
func ParseField(s string) (Field, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "description":
		return FieldDescription, nil
	case "mdn_url":
		return FieldMDNURL, nil
	case "spec_url":
		return FieldSpecURL, nil
	default:
		return 0, fmt.Errorf("feature: unknown field %q", s)
	}
}

// StatusField names one of the tri-state status flags.
type StatusField int

const (
	StatusDeprecated StatusField = iota
	StatusExperimental
	StatusStandardTrack
)

// String returns the source key of the status flag.
func (f StatusField) String() string {
	switch f {
	case StatusDeprecated:
		return "deprecated"
	case StatusExperimental:
		return "experimental"
	case StatusStandardTrack:
		return "standard_track"
	default:
		return fmt.Sprintf("StatusField(%d)", int(f))
	}
}

// ParseStatusField parses "deprecated", "experimental" or "standard_track".
func ParseStatusField(s string) (StatusField, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "deprecated":
		return StatusDeprecated, nil
	case "experimental":
		return StatusExperimental, nil
	case "standard_track":
		return StatusStandardTrack, nil
	default:
		return 0, fmt.Errorf("feature: unknown status field %q", s)
	}
}

// Status returns the value of a status flag.
func (r *Record) Status(f StatusField) Tristate {
	switch f {
	case StatusDeprecated:
		return r.Deprecated
	case StatusExperimental:
		return r.Experimental
	case StatusStandardTrack:
		return r.StandardTrack
	default:
		return TristateUnknown
	}
}

// HasField matches records where the field is present (want true) or
// absent (want false).
func HasField(f Field, want bool) Predicate {
	return func(r *Record) bool {
		var v *string
		switch f {
		case FieldDescription:
			v = r.Description
		case FieldMDNURL:
			v = r.MDNURL
		case FieldSpecURL:
			v = r.SpecURL
		}
		return (v != nil) == want
	}
}

// StatusIs matches records whose status flag equals want. TristateUnknown
// matches records without that information.
func StatusIs(f StatusField, want Tristate) Predicate {
	return func(r *Record) bool {
		return r.Status(f) == want
	}
}

// SupportIs matches records where the browser's folded classification
// satisfies q.
func SupportIs(browser string, q support.Query, policy support.FoldPolicy) Predicate {
	return func(r *Record) bool {
		c, present := r.Support.Classify(browser, policy)
		return q.Matches(c, present)
	}
}

// InCategory matches records named category or nested below it.
// category may itself be dotted, e.g. "css.properties".
func InCategory(category string) Predicate {
	prefix := category + "."
	return func(r *Record) bool {
		return r.Name == category || strings.HasPrefix(r.Name, prefix)
	}
}

// NameContains matches records whose name contains every whitespace
// separated term of text, ignoring case. Empty text matches everything.
func NameContains(text string) Predicate {
	terms := strings.Fields(strings.ToLower(text))
	return func(r *Record) bool {
		name := strings.ToLower(r.Name)
		for _, term := range terms {
			if !strings.Contains(name, term) {
				return false
			}
		}
		return true
	}
}

// All matches when every predicate matches. Nil predicates are ignored.
func All(preds ...Predicate) Predicate {
	return func(r *Record) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records matching pred, in order.
func Filter(records []Record, pred Predicate) []Record {
	var out []Record
	for i := range records {
		if pred == nil || pred(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
