package walker

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
)

func TestConcurrentMatchesSequential(t *testing.T) {
	doc := loadSample(t)
	s := schema.FromDocument(doc)

	for _, mode := range []Mode{ModeEvery, ModeFirst, ModeDeepest} {
		t.Run(mode.String(), func(t *testing.T) {
			sequential, err := Collect(doc, s, WithMode(mode))
			require.NoError(t, err)

			for _, n := range []int{2, 4, 16} {
				concurrent, err := Collect(doc, s, WithMode(mode), WithConcurrency(n))
				require.NoError(t, err)
				assert.Equal(t, recordNames(sequential), recordNames(concurrent), "concurrency %d", n)
			}
		})
	}
}

func TestConcurrentReplaysHandlerActions(t *testing.T) {
	doc := loadSample(t)

	var missing []string
	var seen []string
	err := Walk(doc, schema.Default(),
		WithConcurrency(3),
		WithBranchMissingHandler(func(category, subcategory string) {
			missing = append(missing, category+"."+subcategory)
		}),
		WithFeatureHandler(func(wc *WalkContext, rec *feature.Record) Action {
			seen = append(seen, rec.Name)
			switch rec.Name {
			case "css.at-rules.media":
				return SkipChildren
			case "html.elements.applet.width":
				return Stop
			}
			return Continue
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"css.at-rules.media",
		"css.at-rules.page",
		"css.properties.color",
		"html.elements.applet",
		"html.elements.applet.width",
	}, seen)
	assert.Equal(t, []string{"css.selectors", "css.types"}, missing, "events after the stop are not delivered")
}

func TestConcurrentBuildErrors(t *testing.T) {
	doc := parseDoc(t, `{
		"css": {"properties": {"color": {"__compat": {"support": {}}}}},
		"html": {"elements": {
			"a": {"__compat": {"support": {}}, "bad": {"__compat": {"status": 1}}},
			"b": {"__compat": {"support": {}}}
		}}
	}`)
	s := schema.FromDocument(doc)

	t.Run("error is returned after earlier records", func(t *testing.T) {
		var seen []string
		err := Walk(doc, s, WithConcurrency(2), WithFeatureHandler(func(_ *WalkContext, rec *feature.Record) Action {
			seen = append(seen, rec.Name)
			return Continue
		}))
		assert.ErrorIs(t, err, bcderrors.ErrParse)
		assert.Equal(t, []string{"css.properties.color", "html.elements.a"}, seen)
	})

	t.Run("error below a skipped node is never reached", func(t *testing.T) {
		skip := func(_ *WalkContext, rec *feature.Record) Action {
			if rec.Name == "html.elements.a" {
				return SkipChildren
			}
			return Continue
		}
		sequential, err := Collect(doc, s, WithFeatureHandler(skip))
		require.NoError(t, err)
		concurrent, err := Collect(doc, s, WithFeatureHandler(skip), WithConcurrency(2))
		require.NoError(t, err)
		assert.Equal(t, []string{"css.properties.color", "html.elements.a", "html.elements.b"}, recordNames(concurrent))
		assert.Equal(t, recordNames(sequential), recordNames(concurrent))
	})
}

func TestBelow(t *testing.T) {
	roots := []feature.Path{{"css", "at-rules", "media"}}
	assert.True(t, below(feature.Path{"css", "at-rules", "media", "any-hover"}, roots))
	assert.False(t, below(feature.Path{"css", "at-rules", "media"}, roots))
	assert.False(t, below(feature.Path{"css", "at-rules", "page"}, roots))
	assert.False(t, below(feature.Path{"css"}, roots))
	assert.False(t, below(feature.Path{"css", "at-rules", "media", "x"}, nil))
}

func TestSummarize(t *testing.T) {
	sum, err := Summarize(loadSample(t), schema.Default(), WithConcurrency(2))
	require.NoError(t, err)
	assert.Equal(t, 8, sum.Features)
	assert.Equal(t, map[string]int{"css": 4, "html": 4}, sum.ByCategory)
	assert.Equal(t, []string{
		"css.selectors", "css.types", "html.global_attributes",
		"javascript.builtins", "javascript.classes", "javascript.functions",
		"javascript.grammar", "javascript.operators", "javascript.statements",
	}, sum.MissingBranches)
	assert.Zero(t, sum.Skipped)
}

func TestWalkLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := parser.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	doc := parseDoc(t, `{"api": {"A": {"__compat": {"support": {}}, "B": {"C": {}}}}}`)
	_, err := Collect(doc, schema.MustNew(
		schema.Entry{Category: "api"},
		schema.Entry{Category: "css", Subcategories: []string{"types"}},
	), WithLogger(logger), WithMaxDepth(3))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "walking document")
	assert.Contains(t, out, "maximum depth exceeded")
	assert.Contains(t, out, "path=api.A.B.C")
	assert.Contains(t, out, "schema branch not in document")
}
