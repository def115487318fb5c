package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
)

// Memory is an in-memory Store. Records keep their insertion order; a
// replaced record keeps its original position and slug.
//
// Memory is safe for concurrent use.
type Memory struct {
	opts Options

	mu      sync.RWMutex
	records []feature.Record
	slugs   []string
	byName  map[string]int
	bySlug  map[string]int
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:   ApplyOptions(opts...),
		byName: make(map[string]int),
		bySlug: make(map[string]int),
	}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, rec feature.Record) (PutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, exists := m.byName[rec.Name]
	if !exists {
		slug := UniqueSlug(rec.Slug(), func(s string) bool {
			_, ok := m.bySlug[s]
			return ok
		})
		i = len(m.records)
		m.byName[rec.Name] = i
		m.bySlug[slug] = i
		m.records = append(m.records, rec)
		m.slugs = append(m.slugs, slug)
		return PutResult{Slug: slug, Created: true}, nil
	}

	slug := m.slugs[i]
	write, conflict, err := Resolve(m.opts.Policy, rec.Name, slug)
	if err != nil {
		return PutResult{Slug: slug}, err
	}
	m.opts.LogConflict(conflict)
	if write {
		m.records[i] = rec
	}
	return PutResult{Slug: slug, Replaced: write, Conflict: conflict}, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, slug string) (feature.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.bySlug[slug]
	if !ok {
		return feature.Record{}, fmt.Errorf("store: %s: %w", slug, bcderrors.ErrNotFound)
	}
	return m.records[i], nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, q Query) (Page, error) {
	match := q.Match()

	m.mu.RLock()
	matching := feature.Filter(m.records, match)
	m.mu.RUnlock()

	return Paginate(matching, q), nil
}

// Count implements Store.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

var _ Store = (*Memory)(nil)
