package walker

import (
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/schema"
)

// walkConcurrent walks branches in parallel, recording their events, then
// replays the events in schema order so handlers see the same sequence as
// in a sequential walk.
func (w *Walker) walkConcurrent(branches []schema.Branch) error {
	recorded := make([][]*event, len(branches))

	g, ctx := errgroup.WithContext(w.context())
	g.SetLimit(w.concurrency)
	for i, b := range branches {
		g.Go(func() error {
			bw := &branchWalk{w: w, branch: b, ctx: ctx}
			bw.emit = func(ev *event) Action {
				recorded[i] = append(recorded[i], ev)
				if ev.kind == eventError {
					return SkipChildren
				}
				return Continue
			}
			bw.run()
			return bw.err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, events := range recorded {
		var skipped []feature.Path
		for _, ev := range events {
			if below(ev.wc.Path, skipped) {
				continue
			}
			switch w.dispatch(ev) {
			case Stop:
				if ev.kind == eventError {
					return ev.err
				}
				return nil
			case SkipChildren:
				skipped = append(skipped, ev.wc.Path)
			}
		}
	}
	return nil
}

// below reports whether path is a strict descendant of any of roots.
func below(path feature.Path, roots []feature.Path) bool {
	for _, root := range roots {
		if len(path) <= len(root) {
			continue
		}
		match := true
		for i := range root {
			if path[i] != root[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
