package walker

import (
	"context"

	"github.com/erraggy/bcdtools/feature"
)

// WalkContext provides contextual information about the current node being visited.
// It follows the http.Request pattern for context access.
type WalkContext struct {
	// Path is the feature path of the current node.
	// Example: ["css", "at-rules", "media"]
	Path feature.Path

	// Depth is the number of path segments.
	Depth int

	// Category is the schema category of the branch being walked. Example: "css"
	Category string

	// Subcategory is the schema subcategory of the branch. Example: "at-rules"
	Subcategory string

	ctx context.Context
}

// Name returns the dotted feature name of the current node.
func (wc *WalkContext) Name() string {
	return wc.Path.String()
}

// Context returns the context.Context for cancellation and deadline propagation.
// Returns context.Background() if no context was set.
func (wc *WalkContext) Context() context.Context {
	if wc.ctx == nil {
		return context.Background()
	}
	return wc.ctx
}

// WithContext returns a shallow copy of WalkContext with the new context.
func (wc *WalkContext) WithContext(ctx context.Context) *WalkContext {
	wc2 := *wc
	wc2.ctx = ctx
	return &wc2
}
