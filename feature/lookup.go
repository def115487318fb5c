package feature

import (
	"fmt"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/parser"
)

// Lookup builds the record for one dotted feature name, such as
// "css.at-rules.media". The error wraps bcderrors.ErrNotFound when the name
// does not reach a node with a compat marker.
func Lookup(doc *parser.Document, name string) (Record, error) {
	path, err := ParsePath(name)
	if err != nil {
		return Record{}, err
	}
	node, ok := doc.Lookup(path...)
	if !ok {
		return Record{}, fmt.Errorf("feature: %s: %w", name, bcderrors.ErrNotFound)
	}
	compat, ok := parser.Get(node, parser.CompatKey)
	if !ok {
		return Record{}, fmt.Errorf("feature: %s has no %s: %w", name, parser.CompatKey, bcderrors.ErrNotFound)
	}
	return Build(path, compat)
}
