package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatches(t *testing.T) {
	supported := Classification{Kind: Supported}
	since := Since("54")
	unsupported := Classification{Kind: Unsupported}
	unknown := Classification{Kind: Unknown}

	tests := []struct {
		q       Query
		c       Classification
		present bool
		want    bool
	}{
		{QuerySupported, supported, true, true},
		{QuerySupported, since, true, true},
		{QuerySupported, unsupported, true, false},
		{QueryExactlySupported, supported, true, true},
		{QueryExactlySupported, since, true, false},
		{QueryUnsupported, unsupported, true, true},
		{QueryUnsupported, unknown, true, false},
		{QueryUnknown, unknown, true, true},
		{QueryUnknown, unknown, false, false},
		{QueryNoData, unknown, false, true},
		{QueryNoData, supported, true, false},
		{QuerySupported, supported, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.q.String()+"/"+tt.c.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Matches(tt.c, tt.present))
		})
	}
}

func TestParseQuery(t *testing.T) {
	tests := map[string]Query{
		"supported":         QuerySupported,
		"true":              QuerySupported,
		"exactly_supported": QueryExactlySupported,
		"exactly_true":      QueryExactlySupported,
		"Unsupported":       QueryUnsupported,
		"false":             QueryUnsupported,
		"unknown":           QueryUnknown,
		"nil":               QueryUnknown,
		"no_data":           QueryNoData,
		"no-data":           QueryNoData,
	}
	for in, want := range tests {
		got, err := ParseQuery(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseQuery("sometimes")
	assert.ErrorContains(t, err, "unknown query")
}
