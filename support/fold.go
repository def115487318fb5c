package support

import (
	"fmt"
	"strings"
)

// FoldPolicy decides how a multi-entry statement reduces to one classification.
type FoldPolicy int

const (
	// FoldAny ranks Supported over SupportedSince (first in list order) over
	// Unsupported over Unknown.
	FoldAny FoldPolicy = iota
	// FoldPrimary classifies the first entry only.
	FoldPrimary
	// FoldAll is Supported only when every entry is supported, else
	// Unsupported if any entry is, else Unknown.
	FoldAll
)

// DefaultFoldPolicy is used when no policy is configured.
const DefaultFoldPolicy = FoldAny

var foldPolicyNames = map[FoldPolicy]string{
	FoldAny:     "any",
	FoldPrimary: "primary",
	FoldAll:     "all",
}

// String returns the policy name accepted by ParseFoldPolicy.
func (p FoldPolicy) String() string {
	if name, ok := foldPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("FoldPolicy(%d)", int(p))
}

// ParseFoldPolicy parses "any", "primary" or "all". An empty string yields
// the default policy.
func ParseFoldPolicy(s string) (FoldPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return FoldAny, nil
	case "primary", "first":
		return FoldPrimary, nil
	case "all":
		return FoldAll, nil
	default:
		return FoldAny, fmt.Errorf("support: unknown fold policy %q (want any, primary or all)", s)
	}
}

// Fold reduces entries to one classification. No entries is Unknown.
func (p FoldPolicy) Fold(entries []Entry) Classification {
	if len(entries) == 0 {
		return Classification{Kind: Unknown}
	}
	switch p {
	case FoldPrimary:
		return ClassifyEntry(entries[0])
	case FoldAll:
		return foldAll(entries)
	default:
		return foldAny(entries)
	}
}

func foldAny(entries []Entry) Classification {
	var since *Classification
	sawUnsupported := false
	for _, e := range entries {
		c := ClassifyEntry(e)
		switch c.Kind {
		case Supported:
			return c
		case SupportedSince:
			if since == nil {
				since = &c
			}
		case Unsupported:
			sawUnsupported = true
		}
	}
	switch {
	case since != nil:
		return *since
	case sawUnsupported:
		return Classification{Kind: Unsupported}
	default:
		return Classification{Kind: Unknown}
	}
}

func foldAll(entries []Entry) Classification {
	first := ClassifyEntry(entries[0])
	allSupported := true
	sawUnsupported := false
	for _, e := range entries {
		c := ClassifyEntry(e)
		if !c.IsSupported() {
			allSupported = false
		}
		if c.Kind == Unsupported {
			sawUnsupported = true
		}
	}
	switch {
	case allSupported:
		return first
	case sawUnsupported:
		return Classification{Kind: Unsupported}
	default:
		return Classification{Kind: Unknown}
	}
}
