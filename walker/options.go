package walker

import (
	"context"

	"github.com/erraggy/bcdtools/parser"
)

// Option configures the Walker.
type Option func(*Walker)

// WithFeatureHandler sets the handler for feature records.
func WithFeatureHandler(fn FeatureHandler) Option {
	return func(w *Walker) { w.onFeature = fn }
}

// WithCompatNodeHandler sets the handler for raw "__compat" values.
func WithCompatNodeHandler(fn CompatNodeHandler) Option {
	return func(w *Walker) { w.onCompatNode = fn }
}

// WithBranchMissingHandler sets the handler called for schema branches the
// document lacks.
func WithBranchMissingHandler(fn BranchMissingHandler) Option {
	return func(w *Walker) { w.onBranchMissing = fn }
}

// WithNodeSkippedHandler sets the handler called when nodes are skipped.
func WithNodeSkippedHandler(fn NodeSkippedHandler) Option {
	return func(w *Walker) { w.onNodeSkipped = fn }
}

// WithMaxDepth sets the maximum feature path length.
// Default is 100. If depth is <= 0, the default is kept.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// WithMode selects which marker nodes produce records. Default is ModeEvery.
func WithMode(mode Mode) Option {
	return func(w *Walker) { w.mode = mode }
}

// WithConcurrency walks up to n schema branches in parallel. Handlers are
// still called from the calling goroutine, in schema order, so the results
// match a sequential walk. Values below 2 walk sequentially.
func WithConcurrency(n int) Option {
	return func(w *Walker) { w.concurrency = n }
}

// WithContext sets the context for cancellation. The walk checks it before
// each node and it is available to handlers via wc.Context().
func WithContext(ctx context.Context) Option {
	return func(w *Walker) { w.userCtx = ctx }
}

// WithLogger sets the logger for walk diagnostics.
func WithLogger(l parser.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}
