// Package support decodes per-browser support statements and normalizes them
// into a small set of support classifications.
//
// A support statement is the value stored for one browser id under a feature's
// "support" object. It is either a single entry object or an array of entry
// objects, most relevant first:
//
//	"chrome": {"version_added": "54"}
//	"chrome": [{"version_added": "2"}, {"version_added": "1", "prefix": "-webkit-"}]
//
// # Classification
//
// [Classify] maps the raw version_added value of an entry to a [Classification]:
//
//	true            -> Supported
//	false           -> Unsupported
//	null or absent  -> Unknown
//	"54"            -> SupportedSince("54")
//
// The strings "true", "false" and "null" classify like the literals they
// spell, and an empty string is Unknown. Numbers classify as SupportedSince
// their literal text. Classify is total and idempotent: every value maps to
// exactly one classification and re-classifying the [Classification.Value] of
// a result returns the same result.
//
// Statements with several entries are folded to one classification with a
// [FoldPolicy]. [FoldAny] is the default.
//
// # Queries
//
// A [Query] selects features by the classification of one browser:
//
//	q, _ := support.ParseQuery("supported")
//	q.Matches(support.Classify(v), true)
//
// QueryNoData matches only when the browser has no statement at all.
package support
