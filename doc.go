// Package bcdtools provides tools for walking browser compatibility data
// (BCD) documents and turning their feature nodes into normalized records.
//
// A BCD document is a JSON tree of categories ("css", "html", "api", ...)
// whose nodes carry a "__compat" object describing one web platform feature:
// its documentation links, its status flags, and a per-browser support
// statement. bcdtools walks that tree along a schema, builds a record for
// every feature node, classifies each browser's support, and can persist the
// records in Postgres.
//
// # Overview
//
// The library is organized in small packages:
//
//   - parser: Load a document from a file, URL, reader or bytes
//   - schema: Choose which categories and subcategories are walked
//   - support: Decode support entries and classify version values
//   - feature: Build feature records and filter them with predicates
//   - walker: Traverse a document and emit a record per feature node
//   - browsers: Read the browser catalog of a document
//   - store: Persist records in memory or in Postgres (store/postgres)
//
// # Installation
//
//	go get github.com/erraggy/bcdtools
//
// # Quick Start
//
// Walk the default schema and print every feature record:
//
//	import (
//		"github.com/erraggy/bcdtools/parser"
//		"github.com/erraggy/bcdtools/schema"
//		"github.com/erraggy/bcdtools/walker"
//	)
//
//	result, err := parser.New().Parse("data.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := walker.Collect(result.Document, schema.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, rec := range records {
//		fmt.Println(rec.Name, rec.Slug())
//	}
//
// Classify one browser's support for a feature:
//
//	rec, err := feature.Lookup(result.Document, "css.at-rules.media")
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, present := rec.Support.Classify("firefox", support.FoldAny)
//	if present {
//		fmt.Println(c) // e.g. "supported since 1"
//	}
//
// Import records into Postgres, rejecting duplicate names:
//
//	st, err := postgres.Connect(ctx, dsn, store.WithConflictPolicy(store.ConflictReject))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//	if err := st.Migrate(ctx); err != nil {
//		log.Fatal(err)
//	}
//	summary, err := store.PutAll(ctx, st, records)
//
// # Walking
//
// The walker visits the schema's branches in order and emits a record for
// each node that has a "__compat" child. Mode controls nested feature nodes:
// ModeEvery emits all of them, ModeFirst stops at the first along a path, and
// ModeDeepest emits only leaves. Handlers steer the traversal by returning
// Continue, SkipChildren or Stop, and WithConcurrency builds branches in
// parallel while keeping the emitted order identical to a sequential walk.
//
// # Command-Line Tool
//
// The bcdtools command wraps the library:
//
//	bcdtools walk data.json
//	bcdtools browsers --type mobile data.json
//	bcdtools classify css.at-rules.page data.json
//	bcdtools schema --all data.json
//	bcdtools import --dsn postgres://localhost/bcd data.json
//	bcdtools mcp
//
// The mcp command serves the same operations as Model Context Protocol tools
// over stdio.
//
// # Error Handling
//
// Errors are wrapped with context and carry types from the bcderrors
// package. Use errors.Is with bcderrors.ErrParse, bcderrors.ErrConfig,
// bcderrors.ErrNotFound or bcderrors.ErrConflict to classify them.
package bcdtools
