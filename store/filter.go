package store

import (
	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/support"
)

// Filter is the textual form of a Query as read from command-line flags or
// tool arguments. Empty fields do not filter.
type Filter struct {
	Category string
	Search   string

	// Browser and Support select records by one browser's classification.
	// Support requires Browser.
	Browser string
	Support string
	// Fold names the fold policy for multi-entry statements.
	Fold string

	Deprecated    string
	Experimental  string
	StandardTrack string

	// Has lists fields that must be present: description, mdn_url, spec_url.
	Has []string
}

// Query converts f. fold is used when f.Fold is empty.
func (f Filter) Query(fold support.FoldPolicy) (Query, error) {
	q := Query{Category: f.Category, Search: f.Search}

	if f.Fold != "" {
		p, err := support.ParseFoldPolicy(f.Fold)
		if err != nil {
			return Query{}, &bcderrors.ConfigError{Option: "fold", Value: f.Fold, Cause: err}
		}
		fold = p
	}

	switch {
	case f.Support != "" && f.Browser == "":
		return Query{}, &bcderrors.ConfigError{Option: "support", Value: f.Support, Message: "requires a browser"}
	case f.Browser != "":
		want := support.QuerySupported
		if f.Support != "" {
			p, err := support.ParseQuery(f.Support)
			if err != nil {
				return Query{}, &bcderrors.ConfigError{Option: "support", Value: f.Support, Cause: err}
			}
			want = p
		}
		q.Predicates = append(q.Predicates, feature.SupportIs(f.Browser, want, fold))
	}

	for _, st := range []struct {
		field feature.StatusField
		value string
	}{
		{feature.StatusDeprecated, f.Deprecated},
		{feature.StatusExperimental, f.Experimental},
		{feature.StatusStandardTrack, f.StandardTrack},
	} {
		if st.value == "" {
			continue
		}
		t, err := feature.ParseTristate(st.value)
		if err != nil {
			return Query{}, &bcderrors.ConfigError{Option: st.field.String(), Value: st.value, Cause: err}
		}
		q.Predicates = append(q.Predicates, feature.StatusIs(st.field, t))
	}

	for _, name := range f.Has {
		field, err := feature.ParseField(name)
		if err != nil {
			return Query{}, &bcderrors.ConfigError{Option: "has", Value: name, Cause: err}
		}
		q.Predicates = append(q.Predicates, feature.HasField(field, true))
	}
	return q, nil
}
