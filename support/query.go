package support

import (
	"fmt"
	"strings"
)

// Query selects a classification for one browser.
type Query int

const (
	// QuerySupported matches Supported and SupportedSince.
	QuerySupported Query = iota
	// QueryExactlySupported matches Supported only (version_added: true).
	QueryExactlySupported
	// QueryUnsupported matches Unsupported.
	QueryUnsupported
	// QueryUnknown matches a statement whose classification is Unknown.
	QueryUnknown
	// QueryNoData matches when the browser has no statement at all.
	QueryNoData
)

var queryNames = []struct {
	q    Query
	name string
}{
	{QuerySupported, "supported"},
	{QueryExactlySupported, "exactly-supported"},
	{QueryUnsupported, "unsupported"},
	{QueryUnknown, "unknown"},
	{QueryNoData, "no-data"},
}

// String returns the query name accepted by ParseQuery.
func (q Query) String() string {
	for _, n := range queryNames {
		if n.q == q {
			return n.name
		}
	}
	return fmt.Sprintf("Query(%d)", int(q))
}

// ParseQuery parses a query name. Underscores and hyphens are interchangeable,
// and the literal spellings "true", "exactly_true", "false" and "nil" are
// accepted as aliases.
func ParseQuery(s string) (Query, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch norm {
	case "true":
		return QuerySupported, nil
	case "exactly-true":
		return QueryExactlySupported, nil
	case "false":
		return QueryUnsupported, nil
	case "nil", "null":
		return QueryUnknown, nil
	}
	for _, n := range queryNames {
		if n.name == norm {
			return n.q, nil
		}
	}
	return QuerySupported, fmt.Errorf("support: unknown query %q", s)
}

// Matches reports whether a browser with classification c satisfies q.
// present reports whether the browser had a statement; c is ignored when
// present is false.
func (q Query) Matches(c Classification, present bool) bool {
	if q == QueryNoData {
		return !present
	}
	if !present {
		return false
	}
	switch q {
	case QuerySupported:
		return c.IsSupported()
	case QueryExactlySupported:
		return c.Kind == Supported
	case QueryUnsupported:
		return c.Kind == Unsupported
	case QueryUnknown:
		return c.Kind == Unknown
	default:
		return false
	}
}
