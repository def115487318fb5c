package support

import (
	"fmt"
	"strings"
)

// Kind is the normalized support category.
type Kind int

const (
	// Unknown means there is no usable support information.
	Unknown Kind = iota
	// Supported means supported with no known starting version.
	Supported
	// Unsupported means known not to be supported.
	Unsupported
	// SupportedSince means supported from Classification.Version on.
	SupportedSince
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Supported:
		return "supported"
	case Unsupported:
		return "unsupported"
	case SupportedSince:
		return "supported_since"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classification is the result of classifying a support value.
type Classification struct {
	Kind Kind
	// Version is set only for SupportedSince.
	Version string
}

// Since returns SupportedSince(version).
func Since(version string) Classification {
	return Classification{Kind: SupportedSince, Version: version}
}

// String renders the classification, e.g. "supported since 54".
func (c Classification) String() string {
	if c.Kind == SupportedSince {
		return "supported since " + c.Version
	}
	return c.Kind.String()
}

// IsSupported reports whether c is Supported or SupportedSince.
func (c Classification) IsSupported() bool {
	return c.Kind == Supported || c.Kind == SupportedSince
}

// Value returns a version value that classifies back to c.
func (c Classification) Value() Value {
	switch c.Kind {
	case Supported:
		return BoolValue(true)
	case Unsupported:
		return BoolValue(false)
	case SupportedSince:
		return StringValue(c.Version)
	default:
		return NullValue()
	}
}

// Classify maps a raw version_added value to a Classification.
// Every value has exactly one classification.
func Classify(v Value) Classification {
	switch v.Kind {
	case Bool:
		if v.Bool {
			return Classification{Kind: Supported}
		}
		return Classification{Kind: Unsupported}
	case String:
		return classifyString(v.Text)
	case Other:
		if isNumber(v.Text) {
			return Since(v.Text)
		}
		return Classification{Kind: Unknown}
	default:
		return Classification{Kind: Unknown}
	}
}

func classifyString(s string) Classification {
	switch strings.TrimSpace(s) {
	case "true":
		return Classification{Kind: Supported}
	case "false":
		return Classification{Kind: Unsupported}
	case "null", "":
		return Classification{Kind: Unknown}
	default:
		return Since(s)
	}
}

// ClassifyEntry classifies an entry by its version_added value.
func ClassifyEntry(e Entry) Classification {
	return Classify(e.VersionAdded)
}

// ClassifyStatement folds the entries of a statement into one classification.
func ClassifyStatement(s Statement, policy FoldPolicy) Classification {
	return policy.Fold(s.Entries)
}
