package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/internal/testutil"
	"github.com/erraggy/bcdtools/schema"
	"github.com/erraggy/bcdtools/walker"
)

// sampleRecords walks every category of the sample document (9 records).
func sampleRecords(t *testing.T) []feature.Record {
	t.Helper()
	doc := testutil.LoadSample(t)
	records, err := walker.Collect(doc, schema.FromDocument(doc))
	require.NoError(t, err)
	return records
}

func record(name string) feature.Record {
	p, _ := feature.ParsePath(name)
	return feature.Record{Name: name, Path: p}
}

// names returns the record names in order, nil for no records.
func names(records []feature.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}
