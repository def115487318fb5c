package parser

import "go.yaml.in/yaml/v4"

// DocumentStats contains statistical information about a compat document
type DocumentStats struct {
	CategoryCount   int // Top-level categories other than "browsers"
	BrowserCount    int // Entries under "browsers"
	CompatNodeCount int // Nodes carrying the "__compat" marker anywhere in the tree
}

// GetDocumentStats returns statistics for a parsed document
func GetDocumentStats(doc *Document) DocumentStats {
	if doc == nil {
		return DocumentStats{}
	}
	stats := DocumentStats{
		CategoryCount: len(doc.Categories()),
	}
	if browsers, ok := doc.Browsers(); ok {
		stats.BrowserCount = len(Keys(browsers))
	}

	// explicit stack; the tree is only as deep as the document
	stack := []*yaml.Node{doc.Root()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for key, child := range Pairs(node) {
			if key == CompatKey {
				stats.CompatNodeCount++
				continue
			}
			if IsMapping(child) {
				stack = append(stack, child)
			}
		}
	}
	return stats
}
