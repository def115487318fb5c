package walker

import (
	"context"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
)

// Action controls the walker's behavior after visiting a node.
type Action int

const (
	// Continue continues walking normally, visiting children and siblings.
	Continue Action = iota

	// SkipChildren skips all children of the current node but continues with siblings.
	SkipChildren

	// Stop stops the walk immediately. No more nodes will be visited.
	Stop
)

// IsValid returns true if the action is one of the defined constants.
func (a Action) IsValid() bool {
	return a >= Continue && a <= Stop
}

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case SkipChildren:
		return "SkipChildren"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// combine returns the stronger of two actions.
func combine(a, b Action) Action {
	if a == Stop || b == Stop {
		return Stop
	}
	if a == SkipChildren || b == SkipChildren {
		return SkipChildren
	}
	return Continue
}

// Mode selects which marker nodes produce records.
type Mode int

const (
	// ModeEvery emits a record at every marker node and keeps descending.
	ModeEvery Mode = iota

	// ModeFirst emits the first marker node along each branch and does not
	// descend below it.
	ModeFirst

	// ModeDeepest emits only marker nodes that have no marker-bearing
	// descendant.
	ModeDeepest
)

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeEvery:
		return "every"
	case ModeFirst:
		return "first"
	case ModeDeepest:
		return "deepest"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses "every", "first" or "deepest". Empty means ModeEvery.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "every":
		return ModeEvery, nil
	case "first":
		return ModeFirst, nil
	case "deepest":
		return ModeDeepest, nil
	default:
		return ModeEvery, fmt.Errorf("walker: unknown mode %q (want every, first or deepest)", s)
	}
}

// FeatureHandler is called with each record built from a marker node.
type FeatureHandler func(wc *WalkContext, rec *feature.Record) Action

// CompatNodeHandler is called with the raw "__compat" value of each marker
// node, before the record is built.
type CompatNodeHandler func(wc *WalkContext, compat *yaml.Node) Action

// BranchMissingHandler is called for each schema branch absent from the
// document. subcategory is empty when a whole category is absent.
type BranchMissingHandler func(category, subcategory string)

// NodeSkippedHandler is called when a node is not visited.
// The reason is "depth" when the node exceeds the maximum depth, or
// "not_object" when a non-object value sits where a feature could be.
type NodeSkippedHandler func(reason string, path feature.Path)

// DefaultMaxDepth is the default maximum feature path length.
const DefaultMaxDepth = 100

// Walker traverses a compat document along a schema and calls handlers for
// each marker node it finds.
type Walker struct {
	onFeature       FeatureHandler
	onCompatNode    CompatNodeHandler
	onBranchMissing BranchMissingHandler
	onNodeSkipped   NodeSkippedHandler

	maxDepth    int
	mode        Mode
	concurrency int
	userCtx     context.Context
	logger      parser.Logger
}

// New creates a new Walker with default settings.
func New() *Walker {
	return &Walker{
		maxDepth: DefaultMaxDepth,
		logger:   parser.NopLogger{},
	}
}

// Walk traverses doc along s and calls the registered handlers.
// Records are produced in schema order, then document key order.
//
// A marker node that cannot be turned into a record aborts the walk with a
// *bcderrors.ParseError. Branches missing from the document are not errors.
func Walk(doc *parser.Document, s *schema.Schema, opts ...Option) error {
	w := New()
	for _, opt := range opts {
		opt(w)
	}
	return w.walk(doc, s)
}

func (w *Walker) walk(doc *parser.Document, s *schema.Schema) error {
	if doc == nil {
		return fmt.Errorf("walker: nil Document")
	}
	if s == nil {
		return fmt.Errorf("walker: nil Schema")
	}

	branches := s.Branches(doc)
	w.logger.Debug("walking document",
		"branches", len(branches),
		"mode", w.mode.String(),
		"concurrency", w.concurrency,
	)

	if w.concurrency > 1 && len(branches) > 1 {
		return w.walkConcurrent(branches)
	}

	var err error
	for _, b := range branches {
		bw := &branchWalk{w: w, branch: b, ctx: w.context()}
		bw.emit = func(ev *event) Action {
			act := w.dispatch(ev)
			if ev.kind == eventError {
				err = ev.err
			}
			return act
		}
		stopped := bw.run()
		if bw.err != nil {
			return bw.err
		}
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}

func (w *Walker) context() context.Context {
	if w.userCtx == nil {
		return context.Background()
	}
	return w.userCtx
}

// dispatch delivers one event to the registered handlers.
func (w *Walker) dispatch(ev *event) Action {
	switch ev.kind {
	case eventMissing:
		w.logger.Debug("schema branch not in document",
			"category", ev.wc.Category, "subcategory", ev.wc.Subcategory)
		if w.onBranchMissing != nil {
			w.onBranchMissing(ev.wc.Category, ev.wc.Subcategory)
		}
		return Continue
	case eventSkipped:
		if ev.reason == skipDepth {
			w.logger.Warn("node skipped: maximum depth exceeded",
				"path", ev.wc.Path.String(), "max_depth", w.maxDepth)
		} else {
			w.logger.Debug("node skipped", "path", ev.wc.Path.String(), "reason", ev.reason)
		}
		if w.onNodeSkipped != nil {
			w.onNodeSkipped(ev.reason, ev.wc.Path)
		}
		return Continue
	case eventCompat:
		if w.onCompatNode != nil {
			return w.onCompatNode(ev.wc, ev.compat)
		}
		return Continue
	case eventFeature:
		if w.onFeature != nil {
			return w.onFeature(ev.wc, &ev.rec)
		}
		return Continue
	case eventError:
		w.logger.Error("failed to build feature record", "path", ev.wc.Path.String(), "error", ev.err)
		return Stop
	default:
		return Continue
	}
}
