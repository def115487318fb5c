// Package feature defines the flat feature record extracted from a compat
// document and the builder that produces it from one "__compat" node.
//
// A [Record] is a value: [Build] either returns a complete record or an
// error, and records are never modified afterwards. Optional fields that are
// absent in the source are nil pointers or [TristateUnknown], never false.
//
// Records can be filtered with parameterized [Predicate] values:
//
//	pred := feature.All(
//		feature.InCategory("css"),
//		feature.StatusIs(feature.StatusDeprecated, feature.TristateFalse),
//		feature.SupportIs("firefox", support.QueryUnsupported, support.FoldAny),
//	)
//	if pred(&rec) { ... }
package feature
