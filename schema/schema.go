// Package schema defines the top-level schema: the ordered list of
// categories and subcategories a walk is allowed to enter.
//
// Entry order is traversal order, and therefore output order. A Schema is
// immutable once built.
//
// Schemas are usually written as YAML, one category per key:
//
//	css:
//	  - at-rules
//	  - properties
//	html:
//	  - elements
//	api: ~
//
// Flow sequences such as "html: [elements]" are accepted as well.
//
// A category with no subcategory list (api above) is walked in full: every
// key beneath it is treated as a subcategory, in document order.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/parser"
)

// Entry is one category and the subcategories to walk beneath it.
// A nil Subcategories slice means every key beneath the category.
type Entry struct {
	Category      string
	Subcategories []string
}

// WalksAll reports whether the entry covers every key beneath its category.
func (e Entry) WalksAll() bool {
	return e.Subcategories == nil
}

// Schema is an ordered, immutable list of entries.
type Schema struct {
	entries []Entry
}

// New validates entries and returns a schema holding copies of them.
func New(entries ...Entry) (*Schema, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if err := checkKey(e.Category); err != nil {
			return nil, &bcderrors.ConfigError{Option: fmt.Sprintf("schema[%d]", i), Value: e.Category, Message: err.Error()}
		}
		if e.Category == parser.BrowsersKey {
			return nil, &bcderrors.ConfigError{Option: fmt.Sprintf("schema[%d]", i), Value: e.Category, Message: "the browsers subtree is not a feature category"}
		}
		if seen[e.Category] {
			return nil, &bcderrors.ConfigError{Option: fmt.Sprintf("schema[%d]", i), Value: e.Category, Message: "duplicate category"}
		}
		seen[e.Category] = true

		var subs []string
		if e.Subcategories != nil {
			subs = make([]string, 0, len(e.Subcategories))
			seenSub := make(map[string]bool, len(e.Subcategories))
			for _, sub := range e.Subcategories {
				if err := checkKey(sub); err != nil {
					return nil, &bcderrors.ConfigError{Option: "schema." + e.Category, Value: sub, Message: err.Error()}
				}
				if seenSub[sub] {
					return nil, &bcderrors.ConfigError{Option: "schema." + e.Category, Value: sub, Message: "duplicate subcategory"}
				}
				seenSub[sub] = true
				subs = append(subs, sub)
			}
		}
		out = append(out, Entry{Category: e.Category, Subcategories: subs})
	}
	return &Schema{entries: out}, nil
}

func checkKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("empty name")
	case key == parser.CompatKey:
		return fmt.Errorf("%s is reserved", parser.CompatKey)
	default:
		return nil
	}
}

// MustNew is like New but panics on error. It is intended for static schemas.
func MustNew(entries ...Entry) *Schema {
	s, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the full browser-compat-data layout.
func Default() *Schema {
	return MustNew(
		Entry{Category: "css", Subcategories: []string{"at-rules", "properties", "selectors", "types"}},
		Entry{Category: "html", Subcategories: []string{"elements", "global_attributes"}},
		Entry{Category: "javascript", Subcategories: []string{"builtins", "classes", "functions", "grammar", "operators", "statements"}},
	)
}

// FromDocument returns a schema covering every category of doc with every
// key beneath it as a subcategory, in document order.
func FromDocument(doc *parser.Document) *Schema {
	var entries []Entry
	for _, category := range doc.Categories() {
		node, _ := doc.Lookup(category)
		if !parser.IsMapping(node) {
			continue
		}
		subs := []string{}
		for key := range parser.Pairs(node) {
			if key != parser.CompatKey {
				subs = append(subs, key)
			}
		}
		entries = append(entries, Entry{Category: category, Subcategories: subs})
	}
	return &Schema{entries: entries}
}

// Parse reads a schema from YAML or JSON: a mapping of category to a list of
// subcategories (or null for every subcategory).
func Parse(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &bcderrors.ConfigError{Option: "schema", Message: "invalid schema document", Cause: err}
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if !parser.IsMapping(root) {
		return nil, &bcderrors.ConfigError{Option: "schema", Message: "schema must be a mapping of category to subcategories, got " + parser.KindName(root)}
	}

	var entries []Entry
	for category, value := range parser.Pairs(root) {
		e := Entry{Category: category}
		switch {
		case parser.IsNull(value):
		case parser.IsSequence(value):
			e.Subcategories = []string{}
			for i, item := range parser.Items(value) {
				sub, ok := parser.ScalarString(item)
				if !ok {
					return nil, &bcderrors.ConfigError{
						Option:  fmt.Sprintf("schema.%s[%d]", category, i),
						Message: "subcategory must be a string, got " + parser.KindName(item),
					}
				}
				e.Subcategories = append(e.Subcategories, sub)
			}
		default:
			return nil, &bcderrors.ConfigError{
				Option:  "schema." + category,
				Message: "subcategories must be a list or null, got " + parser.KindName(value),
			}
		}
		entries = append(entries, e)
	}
	return New(entries...)
}

// Load reads a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return s, nil
}

// Entries returns a copy of the entries in order.
func (s *Schema) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Category: e.Category}
		if e.Subcategories != nil {
			out[i].Subcategories = append([]string{}, e.Subcategories...)
		}
	}
	return out
}

// Len returns the number of categories.
func (s *Schema) Len() int {
	return len(s.entries)
}

// Categories returns the category names in order.
func (s *Schema) Categories() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Category
	}
	return out
}

// Branch is one category/subcategory pair resolved against a document.
type Branch struct {
	Category    string
	Subcategory string
	// Node is the subcategory subtree, nil when the document lacks it.
	Node *yaml.Node
}

// Missing reports whether the document lacks the branch.
func (b Branch) Missing() bool {
	return b.Node == nil
}

// Path returns the category and subcategory as path segments.
func (b Branch) Path() []string {
	if b.Subcategory == "" {
		return []string{b.Category}
	}
	return []string{b.Category, b.Subcategory}
}

// String returns "category.subcategory".
func (b Branch) String() string {
	if b.Subcategory == "" {
		return b.Category
	}
	return b.Category + "." + b.Subcategory
}

// Branches resolves the schema against doc into the ordered list of branches
// to walk. Missing branches are included with a nil Node. An entry that walks
// every subcategory takes its keys from doc; when its category is absent it
// yields a single missing branch with an empty Subcategory.
func (s *Schema) Branches(doc *parser.Document) []Branch {
	var out []Branch
	for _, e := range s.entries {
		category, found := doc.Lookup(e.Category)
		if e.WalksAll() {
			if !found {
				out = append(out, Branch{Category: e.Category})
				continue
			}
			for key, node := range parser.Pairs(category) {
				if key != parser.CompatKey {
					out = append(out, Branch{Category: e.Category, Subcategory: key, Node: node})
				}
			}
			continue
		}
		for _, sub := range e.Subcategories {
			b := Branch{Category: e.Category, Subcategory: sub}
			if found {
				b.Node, _ = parser.Get(category, sub)
			}
			out = append(out, b)
		}
	}
	return out
}

// MarshalYAML renders the schema in the form Parse accepts.
func (s *Schema) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range s.entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Category}
		var value *yaml.Node
		if e.WalksAll() {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
		} else {
			value = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, sub := range e.Subcategories {
				value.Content = append(value.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sub})
			}
		}
		root.Content = append(root.Content, key, value)
	}
	return root, nil
}

// MarshalJSON renders the schema as an object in category order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if e.WalksAll() {
			buf.WriteString("null")
			continue
		}
		subs, err := json.Marshal(e.Subcategories)
		if err != nil {
			return nil, err
		}
		buf.Write(subs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
