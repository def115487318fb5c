package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/parser"
)

func TestLookup(t *testing.T) {
	result, err := parser.New().Parse("../testdata/bcd-sample.json")
	require.NoError(t, err)
	doc := result.Document

	rec, err := Lookup(doc, "html.elements.applet.width")
	require.NoError(t, err)
	assert.Equal(t, "html.elements.applet.width", rec.Name)
	assert.Equal(t, Path{"html", "elements", "applet", "width"}, rec.Path)
	assert.Equal(t, []string{"chrome", "firefox"}, rec.Support.Browsers())

	_, err = Lookup(doc, "html.elements.marquee")
	assert.ErrorIs(t, err, bcderrors.ErrNotFound)

	// a branch without its own marker
	_, err = Lookup(doc, "css.at-rules")
	assert.ErrorIs(t, err, bcderrors.ErrNotFound)

	_, err = Lookup(doc, "")
	assert.Error(t, err)
}
