package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	result, err := ParseWithOptions(WithBytes([]byte(data)))
	require.NoError(t, err)
	return result.Document
}

func TestNewDocument(t *testing.T) {
	_, err := NewDocument(nil)
	assert.ErrorContains(t, err, "empty document")

	_, err = NewDocument(&yaml.Node{Kind: yaml.DocumentNode})
	assert.ErrorContains(t, err, "empty document")

	_, err = NewDocument(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "x"})
	assert.ErrorContains(t, err, "must be an object, got string")

	doc, err := NewDocument(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{
		{Kind: yaml.MappingNode, Tag: "!!map"},
	}})
	require.NoError(t, err)
	assert.Equal(t, yaml.MappingNode, doc.Root().Kind)
}

func TestDocument_Lookup(t *testing.T) {
	doc := mustParse(t, `{"css": {"at-rules": {"media": {"__compat": {}}}}}`)

	node, ok := doc.Lookup("css", "at-rules", "media")
	require.True(t, ok)
	assert.True(t, HasKey(node, CompatKey))

	_, ok = doc.Lookup("css", "selectors")
	assert.False(t, ok)

	root, ok := doc.Lookup()
	require.True(t, ok)
	assert.Same(t, doc.Root(), root)
}

func TestDocument_CategoriesAndBrowsers(t *testing.T) {
	doc := mustParse(t, `{"__meta": {"version": "1"}, "browsers": {"chrome": {}}, "html": {}, "css": {}}`)

	assert.Equal(t, []string{"html", "css"}, doc.Categories())
	browsers, ok := doc.Browsers()
	require.True(t, ok)
	assert.Equal(t, []string{"chrome"}, Keys(browsers))
}

func TestPairs_StopsEarly(t *testing.T) {
	doc := mustParse(t, `{"a": 1, "b": 2, "c": 3}`)

	var seen []string
	for key := range Pairs(doc.Root()) {
		seen = append(seen, key)
		if key == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestPairs_NonMapping(t *testing.T) {
	doc := mustParse(t, `{"list": [1, 2], "s": "x"}`)
	list, _ := Get(doc.Root(), "list")
	assert.Empty(t, Keys(list))
	assert.Len(t, Items(list), 2)
	assert.Nil(t, Items(doc.Root()))
	_, ok := Get(list, "0")
	assert.False(t, ok)
}

func TestScalarAccessors(t *testing.T) {
	doc := mustParse(t, `{"s": "54", "t": true, "f": false, "n": null, "num": 54, "st": "true"}`)
	get := func(k string) *yaml.Node {
		n, ok := Get(doc.Root(), k)
		require.True(t, ok)
		return n
	}

	s, ok := ScalarString(get("s"))
	assert.True(t, ok)
	assert.Equal(t, "54", s)

	_, ok = ScalarString(get("num"))
	assert.False(t, ok, "numbers are not strings")

	st, ok := ScalarString(get("st"))
	assert.True(t, ok, "quoted true is a string")
	assert.Equal(t, "true", st)

	b, ok := ScalarBool(get("t"))
	assert.True(t, ok)
	assert.True(t, b)
	b, ok = ScalarBool(get("f"))
	assert.True(t, ok)
	assert.False(t, b)
	_, ok = ScalarBool(get("st"))
	assert.False(t, ok)

	assert.True(t, IsNull(get("n")))
	assert.False(t, IsNull(get("f")))
}

func TestKindName(t *testing.T) {
	doc := mustParse(t, `{"o": {}, "a": [], "s": "", "b": true, "n": null, "i": 1, "x": 1.5}`)
	want := map[string]string{"o": "object", "a": "array", "s": "string", "b": "boolean", "n": "null", "i": "number", "x": "number"}
	for key, node := range Pairs(doc.Root()) {
		assert.Equal(t, want[key], KindName(node), key)
	}
	assert.Equal(t, "nothing", KindName(nil))
}
