package schema

import (
	"fmt"

	"github.com/erraggy/bcdtools/parser"
)

// Issue describes a schema branch that will yield no records for a document.
// Issues are informational: a missing branch is not an error.
type Issue struct {
	Category    string
	Subcategory string
	Message     string
}

// String formats the issue for logs.
func (i Issue) String() string {
	if i.Subcategory == "" {
		return fmt.Sprintf("%s: %s", i.Category, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Category, i.Subcategory, i.Message)
}

// Validate lists the schema categories and subcategories that doc lacks or
// that are not objects.
func (s *Schema) Validate(doc *parser.Document) []Issue {
	var issues []Issue
	for _, e := range s.entries {
		node, ok := doc.Lookup(e.Category)
		if !ok {
			issues = append(issues, Issue{Category: e.Category, Message: "category not found in document"})
			continue
		}
		if !parser.IsMapping(node) {
			issues = append(issues, Issue{Category: e.Category, Message: "category is a " + parser.KindName(node) + ", not an object"})
			continue
		}
		for _, sub := range e.Subcategories {
			child, ok := parser.Get(node, sub)
			switch {
			case !ok:
				issues = append(issues, Issue{Category: e.Category, Subcategory: sub, Message: "subcategory not found in document"})
			case !parser.IsMapping(child):
				issues = append(issues, Issue{Category: e.Category, Subcategory: sub, Message: "subcategory is a " + parser.KindName(child) + ", not an object"})
			}
		}
	}
	return issues
}
