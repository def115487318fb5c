package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/support"
)

func TestFilterQuery(t *testing.T) {
	records := sampleRecords(t)
	require.Len(t, records, 9)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "chrome unsupported",
			filter: Filter{Browser: "chrome", Support: "false"},
			want:   []string{"html.elements.applet", "html.elements.applet.width"},
		},
		{
			name:   "chrome exactly supported",
			filter: Filter{Browser: "chrome", Support: "exactly_true"},
			want:   []string{"css.at-rules.media"},
		},
		{
			name:   "safari_ios unknown",
			filter: Filter{Browser: "safari_ios", Support: "nil"},
			want:   []string{"css.at-rules.media"},
		},
		{
			name:   "browser alone means supported",
			filter: Filter{Browser: "safari_ios"},
			want:   []string{"html.elements.canvas"},
		},
		{
			name:   "deprecated",
			filter: Filter{Deprecated: "true"},
			want:   []string{"html.elements.applet"},
		},
		{
			name:   "has spec_url",
			filter: Filter{Has: []string{"spec-url"}},
			want:   []string{"css.at-rules.media", "css.at-rules.page"},
		},
		{
			name:   "category and status",
			filter: Filter{Category: "html", StandardTrack: "unknown"},
			want:   []string{"html.elements.applet.width", "html.elements.canvas", "html.elements.canvas.width"},
		},
		{
			name:   "search",
			filter: Filter{Search: "WIDTH canvas"},
			want:   []string{"html.elements.canvas.width"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.filter.Query(support.DefaultFoldPolicy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(feature.Filter(records, q.Match())))
		})
	}
}

func TestFilterQueryNoData(t *testing.T) {
	q, err := Filter{Browser: "safari_ios", Support: "no-data"}.Query(support.DefaultFoldPolicy)
	require.NoError(t, err)
	got := feature.Filter(sampleRecords(t), q.Match())
	assert.Len(t, got, 7)
	assert.NotContains(t, names(got), "css.at-rules.media")
}

func TestFilterQueryFold(t *testing.T) {
	rec := record("css.at-rules.page")
	rec.Support.Set("chrome", []byte(`[{"version_added": "2"}, {"version_added": false}]`))
	records := []feature.Record{rec}

	q, err := Filter{Browser: "chrome", Support: "unsupported", Fold: "all"}.Query(support.FoldAny)
	require.NoError(t, err)
	assert.Len(t, feature.Filter(records, q.Match()), 1)

	// the default passed in applies when Fold is empty
	q, err = Filter{Browser: "chrome", Support: "unsupported"}.Query(support.FoldAny)
	require.NoError(t, err)
	assert.Empty(t, feature.Filter(records, q.Match()))
}

func TestFilterQueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		option string
	}{
		{"support without browser", Filter{Support: "true"}, "support"},
		{"bad support", Filter{Browser: "chrome", Support: "maybe"}, "support"},
		{"bad fold", Filter{Fold: "most"}, "fold"},
		{"bad tristate", Filter{Experimental: "sometimes"}, "experimental"},
		{"bad field", Filter{Has: []string{"title"}}, "has"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.filter.Query(support.DefaultFoldPolicy)
			var ce *bcderrors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.option, ce.Option)
			assert.ErrorIs(t, err, bcderrors.ErrConfig)
		})
	}
}
