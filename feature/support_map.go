package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/support"
)

// SupportMap holds a feature's raw support statements keyed by browser id,
// in source order. Statements are kept verbatim as JSON.
type SupportMap struct {
	ids        []string
	statements map[string]json.RawMessage
}

// Set adds or replaces the statement for id. A new id goes to the end.
func (m *SupportMap) Set(id string, raw json.RawMessage) {
	if m.statements == nil {
		m.statements = make(map[string]json.RawMessage)
	}
	if _, exists := m.statements[id]; !exists {
		m.ids = append(m.ids, id)
	}
	m.statements[id] = append(json.RawMessage(nil), raw...)
}

// Len returns the number of browsers.
func (m SupportMap) Len() int {
	return len(m.ids)
}

// Browsers returns the browser ids in source order.
func (m SupportMap) Browsers() []string {
	return append([]string(nil), m.ids...)
}

// Get returns the raw statement for id.
func (m SupportMap) Get(id string) (json.RawMessage, bool) {
	raw, ok := m.statements[id]
	return raw, ok
}

// All iterates browser ids and raw statements in source order.
func (m SupportMap) All() iter.Seq2[string, json.RawMessage] {
	return func(yield func(string, json.RawMessage) bool) {
		for _, id := range m.ids {
			if !yield(id, m.statements[id]) {
				return
			}
		}
	}
}

// Statement decodes the statement for id.
func (m SupportMap) Statement(id string) (support.Statement, bool, error) {
	raw, ok := m.statements[id]
	if !ok {
		return support.Statement{}, false, nil
	}
	s, err := support.ParseStatement(raw)
	if err != nil {
		return support.Statement{}, true, fmt.Errorf("feature: support for %s: %w", id, err)
	}
	return s, true, nil
}

// Classify folds the statement for id. present is false when the browser has
// no statement. A statement that cannot be decoded classifies as Unknown.
func (m SupportMap) Classify(id string, policy support.FoldPolicy) (c support.Classification, present bool) {
	s, present, err := m.Statement(id)
	if !present || err != nil {
		return support.Classification{Kind: support.Unknown}, present
	}
	return support.ClassifyStatement(s, policy), true
}

// MarshalJSON writes the statements as an object in source order.
func (m SupportMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.statements[id])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order.
func (m *SupportMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("feature: support: %w", err)
	}
	if tok == nil {
		*m = SupportMap{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("feature: support must be an object")
	}
	out := SupportMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("feature: support: %w", err)
		}
		id, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("feature: support for %s: %w", id, err)
		}
		out.Set(id, raw)
	}
	*m = out
	return nil
}

// MarshalYAML renders the statements as an ordered mapping.
func (m SupportMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range m.ids {
		var value yaml.Node
		if err := yaml.Unmarshal(m.statements[id], &value); err != nil {
			return nil, fmt.Errorf("feature: support for %s: %w", id, err)
		}
		valueNode := &value
		if value.Kind == yaml.DocumentNode && len(value.Content) > 0 {
			valueNode = value.Content[0]
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			valueNode,
		)
	}
	return node, nil
}
