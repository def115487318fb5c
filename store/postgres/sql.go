package postgres

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/bcdtools/store"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS features (
		id             BIGSERIAL PRIMARY KEY,
		slug           TEXT NOT NULL UNIQUE,
		name           TEXT NOT NULL UNIQUE,
		description    TEXT,
		mdn_url        TEXT,
		spec_url       TEXT,
		spec_urls      TEXT[],
		deprecated     BOOLEAN,
		experimental   BOOLEAN,
		standard_track BOOLEAN,
		support        JSONB NOT NULL DEFAULT '{}'::jsonb,
		browsers       TEXT[] NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS features_support_idx ON features USING gin (support)`,
	`CREATE INDEX IF NOT EXISTS features_name_pattern_idx ON features (name text_pattern_ops)`,
}

const selectSlugForUpdate = `SELECT slug FROM features WHERE name = $1 FOR UPDATE`

const selectTakenSlugs = `SELECT slug FROM features WHERE slug = $1 OR slug LIKE $2`

const insertFeature = `INSERT INTO features
	(slug, name, description, mdn_url, spec_url, spec_urls,
	 deprecated, experimental, standard_track, support, browsers)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const updateFeature = `UPDATE features SET
	name = $2, description = $3, mdn_url = $4, spec_url = $5, spec_urls = $6,
	deprecated = $7, experimental = $8, standard_track = $9,
	support = $10, browsers = $11, updated_at = now()
	WHERE slug = $1`

const selectColumns = `SELECT name, description, mdn_url, spec_url, spec_urls,
	deprecated, experimental, standard_track, support, browsers
	FROM features`

// buildListQuery renders the SQL for the category and search filters of q.
// Paging is applied after the Go-side predicates, so no LIMIT is emitted.
func buildListQuery(q store.Query) (string, []any) {
	var where []string
	var args []any
	if q.Category != "" {
		args = append(args, q.Category, escapeLike(q.Category)+".%")
		where = append(where, fmt.Sprintf("(name = $%d OR name LIKE $%d)", len(args)-1, len(args)))
	}
	for _, term := range strings.Fields(q.Search) {
		args = append(args, "%"+escapeLike(term)+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	sql := selectColumns
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	return sql + " ORDER BY id", args
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
