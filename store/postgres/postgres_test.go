//go:build pgstore

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/store"
	"github.com/erraggy/bcdtools/support"
)

const postgresImage = "postgres:17-alpine"

var testDSN string

// TestMain uses BCDTOOLS_TEST_DSN when set and starts a container otherwise.
func TestMain(m *testing.M) {
	testDSN = os.Getenv("BCDTOOLS_TEST_DSN")
	if testDSN != "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.WithDatabase("bcdtools"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}

	testDSN, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		fmt.Fprintf(os.Stderr, "get connection string: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	ctr.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}

// newStore connects, migrates and empties the features table.
func newStore(t *testing.T, opts ...store.Option) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Connect(ctx, testDSN, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Migrate(ctx))
	_, err = s.pool.Exec(ctx, "TRUNCATE features RESTART IDENTITY")
	require.NoError(t, err)
	return s
}

func record(name, chrome string) feature.Record {
	rec := feature.Record{Name: name, StandardTrack: feature.TristateTrue}
	p, _ := feature.ParsePath(name)
	rec.Path = p
	rec.Support.Set("firefox", json.RawMessage(`{"version_added": false}`))
	rec.Support.Set("chrome", json.RawMessage(fmt.Sprintf(`{"version_added": %q}`, chrome)))
	return rec
}

func TestConnectBadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz")
	require.Error(t, err)
	var ce *bcderrors.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestMigrateIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rec := record("css.properties.width", "1")
	res, err := s.Put(ctx, rec)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "css-properties-width", res.Slug)

	got, err := s.Get(ctx, res.Slug)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, feature.TristateTrue, got.StandardTrack)
	assert.Equal(t, feature.TristateUnknown, got.Deprecated)
	assert.Equal(t, []string{"firefox", "chrome"}, got.Support.Browsers())

	c, present := got.Support.Classify("chrome", support.FoldAny)
	assert.True(t, present)
	assert.Equal(t, support.Since("1"), c)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, bcderrors.ErrNotFound)
}

func TestPutConflictPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("reject", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Put(ctx, record("api.Foo", "1"))
		require.NoError(t, err)
		_, err = s.Put(ctx, record("api.Foo", "2"))
		var ce *bcderrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "api-foo", ce.Slug)
	})

	t.Run("keep first", func(t *testing.T) {
		s := newStore(t, store.WithConflictPolicy(store.ConflictKeepFirst))
		_, err := s.Put(ctx, record("api.Foo", "1"))
		require.NoError(t, err)
		res, err := s.Put(ctx, record("api.Foo", "2"))
		require.NoError(t, err)
		assert.NotNil(t, res.Conflict)
		assert.False(t, res.Replaced)

		got, err := s.Get(ctx, "api-foo")
		require.NoError(t, err)
		c, _ := got.Support.Classify("chrome", support.FoldAny)
		assert.Equal(t, support.Since("1"), c)
	})

	t.Run("last write wins", func(t *testing.T) {
		s := newStore(t, store.WithConflictPolicy(store.ConflictLastWriteWins))
		_, err := s.Put(ctx, record("api.Foo", "1"))
		require.NoError(t, err)
		res, err := s.Put(ctx, record("api.Foo", "2"))
		require.NoError(t, err)
		assert.True(t, res.Replaced)

		got, err := s.Get(ctx, "api-foo")
		require.NoError(t, err)
		c, _ := got.Support.Classify("chrome", support.FoldAny)
		assert.Equal(t, support.Since("2"), c)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestPutSlugCollision(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, name := range []string{
		"javascript.builtins.Symbol.iterator",
		"javascript.builtins.Symbol.@@iterator",
		"javascript.builtins.Symbol.iterator_",
	} {
		res, err := s.Put(ctx, record(name, "1"))
		require.NoError(t, err)
		assert.True(t, res.Created)
		want := "javascript-builtins-symbol-iterator"
		if i > 0 {
			want += fmt.Sprintf("-%d", i+1)
		}
		assert.Equal(t, want, res.Slug)

		got, err := s.Get(ctx, res.Slug)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := store.PutAll(ctx, s, []feature.Record{
		record("css.properties.width", "1"),
		record("css.properties.min-width", "1"),
		record("cssx.other", "1"),
		record("api.Window", "1"),
	})
	require.NoError(t, err)

	page, err := s.List(ctx, store.Query{Category: "css"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "css.properties.width", page.Records[0].Name)

	page, err = s.List(ctx, store.Query{Search: "WIDTH min"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "css.properties.min-width", page.Records[0].Name)

	page, err = s.List(ctx, store.Query{
		Predicates: []feature.Predicate{feature.InCategory("api")},
		Limit:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore())

	page, err = s.List(ctx, store.Query{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Records, 3)
	assert.True(t, page.HasMore())
}
