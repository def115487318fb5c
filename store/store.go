// Package store persists feature records keyed by name and addressed by slug.
//
// A [Store] receives the records a walk produces. Every record is identified
// by its dotted [feature.Record.Name]; a second record with the same name is a
// conflict, which is resolved by the store's [ConflictPolicy] and always
// reported, either as a *bcderrors.ConflictError or in [PutResult.Conflict].
//
// Slugs are lossy, so two distinct names may share one. The first record keeps
// [feature.Record.Slug] and later ones get a numbered suffix ("-2", "-3", ...)
// chosen by [UniqueSlug]. [PutResult.Slug] reports the slug actually assigned.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
)

const (
	// DefaultPageSize is the page size used when a query sets no limit.
	DefaultPageSize = 50

	// MaxPageSize caps the page size of a single query.
	MaxPageSize = 1000
)

// Store is the persistence contract for feature records.
type Store interface {
	// Put stores rec under a slug unique within the store, resolving
	// duplicate names by the store's policy.
	Put(ctx context.Context, rec feature.Record) (PutResult, error)
	// Get returns the record stored under slug, or an error matching
	// bcderrors.ErrNotFound.
	Get(ctx context.Context, slug string) (feature.Record, error)
	// List returns one page of the records matching q, in insertion order.
	List(ctx context.Context, q Query) (Page, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// ConflictPolicy decides what happens when a record's name is already stored.
type ConflictPolicy int

const (
	// ConflictReject fails the Put with a *bcderrors.ConflictError.
	ConflictReject ConflictPolicy = iota
	// ConflictKeepFirst keeps the stored record and reports the conflict.
	ConflictKeepFirst
	// ConflictLastWriteWins replaces the stored record and reports the conflict.
	ConflictLastWriteWins
)

// String returns the policy name accepted by ParseConflictPolicy.
func (p ConflictPolicy) String() string {
	switch p {
	case ConflictReject:
		return "reject"
	case ConflictKeepFirst:
		return "keep-first"
	case ConflictLastWriteWins:
		return "last-write-wins"
	default:
		return fmt.Sprintf("ConflictPolicy(%d)", int(p))
	}
}

// ParseConflictPolicy parses "reject", "keep-first" or "last-write-wins".
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "reject":
		return ConflictReject, nil
	case "keep-first", "first":
		return ConflictKeepFirst, nil
	case "last-write-wins", "last", "overwrite":
		return ConflictLastWriteWins, nil
	default:
		return ConflictReject, &bcderrors.ConfigError{
			Option:  "conflict",
			Value:   s,
			Message: "want reject, keep-first or last-write-wins",
		}
	}
}

// PutResult describes the outcome of a Put.
type PutResult struct {
	// Slug is the slug the record is stored under. It differs from
	// feature.Record.Slug when another name already held that slug.
	Slug string
	// Created is true when no record with the same name was stored before.
	Created bool
	// Replaced is true when an existing record was overwritten.
	Replaced bool
	// Conflict is set when the name was already stored and the policy
	// resolved it without failing.
	Conflict *bcderrors.ConflictError
}

// Resolve applies policy to a Put of name, which is already stored under
// slug. It reports whether the incoming record should be written.
func Resolve(policy ConflictPolicy, name, slug string) (write bool, conflict *bcderrors.ConflictError, err error) {
	conflict = &bcderrors.ConflictError{Name: name, Slug: slug, Existing: name}
	switch policy {
	case ConflictKeepFirst:
		return false, conflict, nil
	case ConflictLastWriteWins:
		return true, conflict, nil
	default:
		return false, nil, conflict
	}
}

// UniqueSlug returns base when taken reports it free, and otherwise the first
// free slug of base-2, base-3, ...
func UniqueSlug(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		slug := base + "-" + strconv.Itoa(n)
		if !taken(slug) {
			return slug
		}
	}
}

// Options configures a store.
type Options struct {
	Policy ConflictPolicy
	Logger parser.Logger
}

// Option configures a store.
type Option func(*Options)

// WithConflictPolicy sets the conflict policy. Default is ConflictReject.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithLogger sets the logger used to report conflicts.
func WithLogger(l parser.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// ApplyOptions returns the options with defaults filled in.
func ApplyOptions(opts ...Option) Options {
	o := Options{Policy: ConflictReject, Logger: parser.NopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LogConflict logs a conflict resolved by policy.
func (o Options) LogConflict(c *bcderrors.ConflictError) {
	if c == nil {
		return
	}
	o.Logger.Warn("feature conflict",
		"name", c.Name,
		"slug", c.Slug,
		"existing", c.Existing,
		"policy", o.Policy.String(),
	)
}
