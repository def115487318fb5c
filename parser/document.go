package parser

import (
	"fmt"
	"iter"
	"strings"

	"go.yaml.in/yaml/v4"
)

const (
	// CompatKey is the reserved key that marks a node as carrying
	// compatibility data for one feature.
	CompatKey = "__compat"

	// BrowsersKey is the top-level key holding the browser release history.
	BrowsersKey = "browsers"
)

// Document is a parsed compat document. The tree keeps every object's keys
// in source order, so traversal order matches the input.
//
// A Document is read-only after parsing and safe for concurrent readers.
type Document struct {
	root *yaml.Node
}

// NewDocument wraps an already decoded tree. A DocumentNode wrapper is
// unwrapped; the root must be a mapping.
func NewDocument(root *yaml.Node) (*Document, error) {
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			root = nil
		} else {
			root = root.Content[0]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parser: empty document")
	}
	if !IsMapping(root) {
		return nil, fmt.Errorf("parser: document root must be an object, got %s", KindName(root))
	}
	return &Document{root: root}, nil
}

// Root returns the root mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Lookup follows keys from the root and returns the node found, if any.
func (d *Document) Lookup(keys ...string) (*yaml.Node, bool) {
	node := d.root
	for _, key := range keys {
		next, ok := Get(node, key)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Categories returns the top-level feature categories in order. The
// "browsers" subtree and reserved "__"-prefixed keys such as "__meta" are
// not categories.
func (d *Document) Categories() []string {
	var out []string
	for key := range Pairs(d.root) {
		if key != BrowsersKey && !strings.HasPrefix(key, "__") {
			out = append(out, key)
		}
	}
	return out
}

// Browsers returns the "browsers" subtree.
func (d *Document) Browsers() (*yaml.Node, bool) {
	return Get(d.root, BrowsersKey)
}

// IsMapping reports whether node is an object, following aliases.
func IsMapping(node *yaml.Node) bool {
	node = resolveAlias(node)
	return node != nil && node.Kind == yaml.MappingNode
}

// IsSequence reports whether node is an array, following aliases.
func IsSequence(node *yaml.Node) bool {
	node = resolveAlias(node)
	return node != nil && node.Kind == yaml.SequenceNode
}

// Get returns the value stored under key in a mapping node.
// Non-mapping nodes have no keys.
func Get(node *yaml.Node, key string) (*yaml.Node, bool) {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1]), true
		}
	}
	return nil, false
}

// HasKey reports whether a mapping node contains key.
func HasKey(node *yaml.Node, key string) bool {
	_, ok := Get(node, key)
	return ok
}

// Pairs iterates the key/value pairs of a mapping node in source order.
// It yields nothing for other node kinds.
func Pairs(node *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		node = resolveAlias(node)
		if node == nil || node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i].Value, resolveAlias(node.Content[i+1])) {
				return
			}
		}
	}
}

// Keys returns the keys of a mapping node in source order.
func Keys(node *yaml.Node) []string {
	var keys []string
	for key := range Pairs(node) {
		keys = append(keys, key)
	}
	return keys
}

// Items returns the elements of a sequence node.
func Items(node *yaml.Node) []*yaml.Node {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, 0, len(node.Content))
	for _, item := range node.Content {
		out = append(out, resolveAlias(item))
	}
	return out
}

// ScalarString returns the text of a string scalar. Booleans, numbers and
// nulls are not strings and report false.
func ScalarString(node *yaml.Node) (string, bool) {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return "", false
	}
	return node.Value, true
}

// ScalarBool returns the value of a boolean scalar.
func ScalarBool(node *yaml.Node) (value bool, ok bool) {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" {
		return false, false
	}
	if err := node.Decode(&value); err != nil {
		return false, false
	}
	return value, true
}

// IsNull reports whether node is an explicit null.
func IsNull(node *yaml.Node) bool {
	node = resolveAlias(node)
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// KindName describes a node's JSON kind ("object", "array", "string", ...)
// for use in error messages.
func KindName(node *yaml.Node) string {
	node = resolveAlias(node)
	if node == nil {
		return "nothing"
	}
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			return "string"
		case "!!bool":
			return "boolean"
		case "!!null":
			return "null"
		case "!!int", "!!float":
			return "number"
		}
		return "scalar"
	default:
		return "node"
	}
}
