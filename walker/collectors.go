package walker

import (
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
)

// Collect walks doc along s and returns every record in walk order.
// A feature handler passed in opts still runs and can stop the walk or skip
// children; every record it is called with is collected.
func Collect(doc *parser.Document, s *schema.Schema, opts ...Option) ([]feature.Record, error) {
	w := New()
	for _, opt := range opts {
		opt(w)
	}

	var records []feature.Record
	user := w.onFeature
	w.onFeature = func(wc *WalkContext, rec *feature.Record) Action {
		records = append(records, *rec)
		if user != nil {
			return user(wc, rec)
		}
		return Continue
	}

	if err := w.walk(doc, s); err != nil {
		return nil, err
	}
	return records, nil
}

// Summary counts what a walk produced.
type Summary struct {
	Features        int
	ByCategory      map[string]int
	MissingBranches []string
	Skipped         int
}

// Summarize walks doc along s and counts records per category without
// keeping them.
func Summarize(doc *parser.Document, s *schema.Schema, opts ...Option) (*Summary, error) {
	sum := &Summary{ByCategory: make(map[string]int)}
	opts = append(opts[:len(opts):len(opts)],
		WithFeatureHandler(func(wc *WalkContext, _ *feature.Record) Action {
			sum.Features++
			sum.ByCategory[wc.Category]++
			return Continue
		}),
		WithBranchMissingHandler(func(category, subcategory string) {
			name := category
			if subcategory != "" {
				name += "." + subcategory
			}
			sum.MissingBranches = append(sum.MissingBranches, name)
		}),
		WithNodeSkippedHandler(func(string, feature.Path) {
			sum.Skipped++
		}),
	)
	if err := Walk(doc, s, opts...); err != nil {
		return nil, err
	}
	return sum, nil
}
