// Package walker extracts feature records from a compat document.
//
// The walker descends depth-first through every branch a [schema.Schema]
// names. A node carrying the "__compat" marker key becomes one
// [feature.Record] named by its full path from the document root, and the
// walk continues into the node's other keys, so nested features such as
// "css.at-rules.media.any-hover" are found too. Keys are visited in document
// order, so records come out in schema order and then document order.
//
// # Quick Start
//
//	result, _ := parser.ParseWithOptions(parser.WithFilePath("data.json"))
//
//	records, err := walker.Collect(result.Document, schema.Default())
//
// # Flow Control
//
// Handlers return an [Action] to control traversal:
//
//   - [Continue]: continue traversing children and siblings normally
//   - [SkipChildren]: do not descend below the current marker node
//   - [Stop]: stop the entire walk immediately
//
// Example skipping everything nested below deprecated features:
//
//	walker.Walk(doc, schema.Default(),
//	    walker.WithFeatureHandler(func(wc *walker.WalkContext, rec *feature.Record) walker.Action {
//	        if rec.Deprecated == feature.TristateTrue {
//	            return walker.SkipChildren
//	        }
//	        return walker.Continue
//	    }),
//	)
//
// # Modes
//
// [ModeEvery] (the default) emits every marker node. [ModeFirst] stops
// descending at the first marker along a branch. [ModeDeepest] emits only
// the most specific markers: nodes with no marker-bearing descendant.
//
// # Missing Branches
//
// A schema branch the document lacks yields no records and is not an error.
// Register [WithBranchMissingHandler] to hear about it, or call
// [schema.Schema.Validate] before walking.
//
// # Errors
//
// A marker whose value, "status" or "support" is not an object cannot be
// built into a record. The walk stops and returns a *bcderrors.ParseError;
// no partial record is ever passed to a handler.
//
// # Concurrency
//
// [WithConcurrency] builds branches in parallel. Events are recorded per
// branch and replayed to the handlers in schema order on the calling
// goroutine, so handlers never run concurrently and see the same sequence as
// a sequential walk. Each recursive step receives its own path and state, so
// nested or parallel walks over the same document are safe.
package walker
