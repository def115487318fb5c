package store

import "github.com/erraggy/bcdtools/feature"

// Query selects and pages records.
type Query struct {
	// Category limits results to names equal to or nested below it.
	Category string
	// Search keeps names containing every whitespace-separated term.
	Search string
	// Predicates are applied after Category and Search.
	Predicates []feature.Predicate
	// Offset is the number of matching records to skip.
	Offset int
	// Limit is the page size: 0 means DefaultPageSize, and values above
	// MaxPageSize are capped.
	Limit int
}

// PageSize returns the effective limit.
func (q Query) PageSize() int {
	switch {
	case q.Limit <= 0:
		return DefaultPageSize
	case q.Limit > MaxPageSize:
		return MaxPageSize
	default:
		return q.Limit
	}
}

// Match returns the predicate combining every filter of q.
func (q Query) Match() feature.Predicate {
	preds := make([]feature.Predicate, 0, len(q.Predicates)+2)
	if q.Category != "" {
		preds = append(preds, feature.InCategory(q.Category))
	}
	if q.Search != "" {
		preds = append(preds, feature.NameContains(q.Search))
	}
	preds = append(preds, q.Predicates...)
	return feature.All(preds...)
}

// Page is one page of query results.
type Page struct {
	Records []feature.Record
	// Total is the number of matching records across all pages.
	Total  int
	Offset int
	Limit  int
}

// HasMore reports whether records follow this page.
func (p Page) HasMore() bool {
	return p.Offset+len(p.Records) < p.Total
}

// NextOffset returns the offset of the following page.
func (p Page) NextOffset() int {
	return p.Offset + len(p.Records)
}

// Paginate slices matching records into a page.
func Paginate(matching []feature.Record, q Query) Page {
	limit := q.PageSize()
	offset := max(q.Offset, 0)
	page := Page{Total: len(matching), Offset: offset, Limit: limit}
	if offset >= len(matching) {
		return page
	}
	end := min(offset+limit, len(matching))
	page.Records = append([]feature.Record(nil), matching[offset:end]...)
	return page
}
