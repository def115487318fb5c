// Package postgres implements store.Store on PostgreSQL with pgx.
//
// Records live in a single "features" table keyed by a unique name and a
// unique slug. Support
// statements are kept in a jsonb column; jsonb does not preserve key order,
// so the browser order is stored alongside in a text array.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/store"
)

// Connection pool defaults.
const (
	DefaultMaxConns        = 5
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Store is a store.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	opts store.Options
}

// Connect opens a pool for dsn, checks the connection and returns a store.
func Connect(ctx context.Context, dsn string, opts ...store.Option) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &bcderrors.ConfigError{Option: "dsn", Message: "failed to parse connection config", Cause: err}
	}
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to connect to %s/%s: %w",
			poolConfig.ConnConfig.Host, poolConfig.ConnConfig.Database, err)
	}
	return New(pool, opts...), nil
}

// New wraps an existing pool. The caller keeps ownership of the pool unless
// it calls Close.
func New(pool *pgxpool.Pool, opts ...store.Option) *Store {
	return &Store{pool: pool, opts: store.ApplyOptions(opts...)}
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the features table and its indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

// Put implements store.Store. The stored row of rec.Name is locked for the
// duration of the transaction; a new name takes the first free slug.
func (s *Store) Put(ctx context.Context, rec feature.Record) (store.PutResult, error) {
	slug := rec.Slug()
	row, err := toRow(rec)
	if err != nil {
		return store.PutResult{Slug: slug}, err
	}

	var result store.PutResult
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var stored string
		err := tx.QueryRow(ctx, selectSlugForUpdate, rec.Name).Scan(&stored)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			slug, err = freeSlug(ctx, tx, slug)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, insertFeature, row.args(slug)...); err != nil {
				return err
			}
			result = store.PutResult{Slug: slug, Created: true}
			return nil
		case err != nil:
			return err
		}

		slug = stored
		write, conflict, err := store.Resolve(s.opts.Policy, rec.Name, slug)
		if err != nil {
			return err
		}
		s.opts.LogConflict(conflict)
		if write {
			if _, err := tx.Exec(ctx, updateFeature, row.args(slug)...); err != nil {
				return err
			}
		}
		result = store.PutResult{Slug: slug, Replaced: write, Conflict: conflict}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// A concurrent Put stored the same name or took the chosen slug.
			return store.PutResult{Slug: slug}, &bcderrors.ConflictError{Name: rec.Name, Slug: slug}
		}
		var ce *bcderrors.ConflictError
		if errors.As(err, &ce) {
			return store.PutResult{Slug: slug}, ce
		}
		return store.PutResult{Slug: slug}, fmt.Errorf("postgres: put %s: %w", rec.Name, err)
	}
	return result, nil
}

// freeSlug returns the first slug derived from base that no row holds.
func freeSlug(ctx context.Context, tx pgx.Tx, base string) (string, error) {
	rows, err := tx.Query(ctx, selectTakenSlugs, base, escapeLike(base)+"-%")
	if err != nil {
		return "", err
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		taken[s] = true
	}
	return store.UniqueSlug(base, func(s string) bool { return taken[s] }), nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, slug string) (feature.Record, error) {
	rows, err := s.pool.Query(ctx, selectColumns+" WHERE slug = $1", slug)
	if err != nil {
		return feature.Record{}, fmt.Errorf("postgres: get %s: %w", slug, err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if errors.Is(err, pgx.ErrNoRows) {
		return feature.Record{}, fmt.Errorf("store: %s: %w", slug, bcderrors.ErrNotFound)
	}
	if err != nil {
		return feature.Record{}, fmt.Errorf("postgres: get %s: %w", slug, err)
	}
	return rec, nil
}

// List implements store.Store. Category and search filters run in SQL;
// predicates run on the fetched rows.
func (s *Store) List(ctx context.Context, q store.Query) (store.Page, error) {
	sql, args := buildListQuery(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return store.Page{}, fmt.Errorf("postgres: list: %w", err)
	}
	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return store.Page{}, fmt.Errorf("postgres: list: %w", err)
	}
	matching := feature.Filter(records, feature.All(q.Predicates...))
	return store.Paginate(matching, q), nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM features").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

// row holds a record in column form.
type row struct {
	name          string
	description   *string
	mdnURL        *string
	specURL       *string
	specURLs      []string
	deprecated    *bool
	experimental  *bool
	standardTrack *bool
	support       []byte
	browsers      []string
}

func toRow(rec feature.Record) (row, error) {
	sup, err := json.Marshal(rec.Support)
	if err != nil {
		return row{}, fmt.Errorf("postgres: encode support for %s: %w", rec.Name, err)
	}
	browsers := rec.Support.Browsers()
	if browsers == nil {
		browsers = []string{}
	}
	return row{
		name:          rec.Name,
		description:   rec.Description,
		mdnURL:        rec.MDNURL,
		specURL:       rec.SpecURL,
		specURLs:      rec.SpecURLs,
		deprecated:    rec.Deprecated.Ptr(),
		experimental:  rec.Experimental.Ptr(),
		standardTrack: rec.StandardTrack.Ptr(),
		support:       sup,
		browsers:      browsers,
	}, nil
}

func (r row) args(slug string) []any {
	return []any{
		slug, r.name, r.description, r.mdnURL, r.specURL, r.specURLs,
		r.deprecated, r.experimental, r.standardTrack, r.support, r.browsers,
	}
}

func scanRecord(rows pgx.CollectableRow) (feature.Record, error) {
	var r row
	if err := rows.Scan(
		&r.name, &r.description, &r.mdnURL, &r.specURL, &r.specURLs,
		&r.deprecated, &r.experimental, &r.standardTrack, &r.support, &r.browsers,
	); err != nil {
		return feature.Record{}, err
	}
	return r.record()
}

func (r row) record() (feature.Record, error) {
	rec := feature.Record{
		Name:          r.name,
		Description:   r.description,
		MDNURL:        r.mdnURL,
		SpecURL:       r.specURL,
		SpecURLs:      r.specURLs,
		Deprecated:    feature.TristateFromPtr(r.deprecated),
		Experimental:  feature.TristateFromPtr(r.experimental),
		StandardTrack: feature.TristateFromPtr(r.standardTrack),
	}
	if p, err := feature.ParsePath(r.name); err == nil {
		rec.Path = p
	}

	var statements map[string]json.RawMessage
	if err := json.Unmarshal(r.support, &statements); err != nil {
		return feature.Record{}, fmt.Errorf("decode support for %s: %w", r.name, err)
	}
	for _, id := range r.browsers {
		if raw, ok := statements[id]; ok {
			rec.Support.Set(id, raw)
			delete(statements, id)
		}
	}
	// ids missing from the order column go last, in sorted order
	for _, id := range sortedKeys(statements) {
		rec.Support.Set(id, statements[id])
	}
	return rec, nil
}
