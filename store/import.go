package store

import (
	"context"
	"fmt"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
)

// ImportSummary counts the outcome of PutAll.
type ImportSummary struct {
	Created   int
	Replaced  int
	Kept      int
	Conflicts []*bcderrors.ConflictError
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Created + s.Replaced + s.Kept
}

// PutAll stores records in order. It stops at the first error, returning
// the summary of what was stored before it.
func PutAll(ctx context.Context, s Store, records []feature.Record) (ImportSummary, error) {
	var sum ImportSummary
	for i := range records {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := s.Put(ctx, records[i])
		if err != nil {
			return sum, fmt.Errorf("store: put %s: %w", records[i].Name, err)
		}
		sum.add(res)
	}
	return sum, nil
}

func (s *ImportSummary) add(res PutResult) {
	switch {
	case res.Created:
		s.Created++
	case res.Replaced:
		s.Replaced++
	default:
		s.Kept++
	}
	if res.Conflict != nil {
		s.Conflicts = append(s.Conflicts, res.Conflict)
	}
}
