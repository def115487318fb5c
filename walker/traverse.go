package walker

import (
	"context"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
)

const (
	skipDepth     = "depth"
	skipNotObject = "not_object"
)

type eventKind int

const (
	eventMissing eventKind = iota
	eventSkipped
	eventCompat
	eventFeature
	eventError
)

// event is one observation made while walking a branch.
type event struct {
	kind   eventKind
	wc     *WalkContext
	compat *yaml.Node
	rec    feature.Record
	reason string
	err    error
}

// branchWalk walks one schema branch. Each recursive call receives the
// node and path it works on; nothing about the position in the tree is
// stored here.
type branchWalk struct {
	w      *Walker
	branch schema.Branch
	ctx    context.Context
	emit   func(*event) Action
	err    error
}

// run walks the branch and reports whether the walk must stop.
func (b *branchWalk) run() bool {
	if b.branch.Missing() {
		return b.emit(&event{kind: eventMissing, wc: b.context(b.branch.Path())}) == Stop
	}
	_, stop := b.visit(b.branch.Node, feature.Path(b.branch.Path()))
	return stop
}

func (b *branchWalk) context(path feature.Path) *WalkContext {
	return &WalkContext{
		Path:        path,
		Depth:       len(path),
		Category:    b.branch.Category,
		Subcategory: b.branch.Subcategory,
		ctx:         b.ctx,
	}
}

// visit walks node and its descendants. marked reports whether node or a
// descendant carries a marker.
func (b *branchWalk) visit(node *yaml.Node, path feature.Path) (marked, stop bool) {
	if err := b.ctx.Err(); err != nil {
		b.err = err
		return false, true
	}
	if len(path) > b.w.maxDepth {
		return false, b.emit(&event{kind: eventSkipped, wc: b.context(path), reason: skipDepth}) == Stop
	}
	if !parser.IsMapping(node) {
		return false, b.emit(&event{kind: eventSkipped, wc: b.context(path), reason: skipNotObject}) == Stop
	}

	compat, hasMarker := parser.Get(node, parser.CompatKey)
	mode := b.w.mode
	if hasMarker && mode != ModeDeepest {
		switch b.marker(path, compat) {
		case Stop:
			return true, true
		case SkipChildren:
			return true, false
		}
		if mode == ModeFirst {
			return true, false
		}
	}

	childMarked := false
	for key, child := range parser.Pairs(node) {
		if key == parser.CompatKey {
			continue
		}
		m, stop := b.visit(child, path.Append(key))
		childMarked = childMarked || m
		if stop {
			return true, true
		}
	}

	if hasMarker && mode == ModeDeepest && !childMarked {
		if b.marker(path, compat) == Stop {
			return true, true
		}
	}
	return hasMarker || childMarked, false
}

// marker emits the events for one marker node.
func (b *branchWalk) marker(path feature.Path, compat *yaml.Node) Action {
	wc := b.context(path)
	act := b.emit(&event{kind: eventCompat, wc: wc, compat: compat})
	if act == Stop {
		return Stop
	}
	rec, err := feature.Build(path, compat)
	if err != nil {
		return combine(SkipChildren, b.emit(&event{kind: eventError, wc: wc, err: err}))
	}
	return combine(act, b.emit(&event{kind: eventFeature, wc: wc, rec: rec}))
}
