package parser_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/erraggy/bcdtools/parser"
)

// Example demonstrates parsing a compat document from disk.
func Example() {
	result, err := parser.ParseWithOptions(parser.WithFilePath("../testdata/bcd-sample.json"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Format: %s\n", result.SourceFormat)
	fmt.Printf("Categories: %s\n", strings.Join(result.Document.Categories(), ", "))
	fmt.Printf("Browsers: %d\n", result.Stats.BrowserCount)
	fmt.Printf("Compat nodes: %d\n", result.Stats.CompatNodeCount)
	// Output:
	// Format: json
	// Categories: css, html, api
	// Browsers: 3
	// Compat nodes: 9
}

// Example_lookup shows navigating to a node and re-encoding it as JSON.
func Example_lookup() {
	result, err := parser.ParseWithOptions(parser.WithBytes([]byte(`{
  "css": {"properties": {"color": {"__compat": {"support": {"chrome": {"version_added": "1"}}}}}}
}`)))
	if err != nil {
		log.Fatal(err)
	}
	node, ok := result.Document.Lookup("css", "properties", "color", parser.CompatKey, "support")
	if !ok {
		log.Fatal("support not found")
	}
	data, err := parser.MarshalNodeJSON(node)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
	// Output:
	// {"chrome":{"version_added":"1"}}
}
