// Package parser loads browser compatibility data documents.
//
// A compat document is a large JSON tree: a "browsers" subtree with each
// browser's release history, and one subtree per feature category ("css",
// "html", "javascript", ...). Any node in a category may carry the reserved
// "__compat" key, which marks it as describing one web-platform feature.
//
// The parser keeps the document as an order-preserving [yaml.Node] tree so
// that traversal visits keys in exactly the order they appear in the source.
// JSON input is tokenized directly into that tree; YAML input is accepted too.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("data.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d compat nodes in %s\n", result.Stats.CompatNodeCount, result.SourcePath)
//
// Documents can also be fetched over HTTP:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("https://unpkg.com/@mdn/browser-compat-data/data.json"),
//	)
//
// # Navigating the tree
//
// [Document.Lookup] follows keys from the root, [Pairs] iterates an object's
// entries in source order, and [MarshalNodeJSON] re-encodes any subtree as
// JSON with its key order intact.
//
// # Errors
//
// A document that cannot be decoded yields a [bcderrors.ParseError] with the
// line and column when known. Inputs larger than the configured limit yield a
// [bcderrors.ResourceLimitError].
package parser
