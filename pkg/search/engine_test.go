package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) Engine {
	t.Helper()
	eng, err := New(Config{IndexPath: filepath.Join(t.TempDir(), "idx")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestIndexAndSearch(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	docs := []Doc{
		{ID: "1", Title: "Morning greeting", Text: "Halo dunia", Email: "a@b.com", CreatedAt: time.Now()},
		{ID: "2", Title: "Farewell", Text: "Sampai jumpa", Email: "a@b.com", CreatedAt: time.Now()},
		{ID: "3", Title: "Morning song", Text: "Selamat pagi", Email: "c@d.com", CreatedAt: time.Now()},
	}
	for _, d := range docs {
		require.NoError(t, eng.Index(ctx, d))
	}

	t.Run("matches title", func(t *testing.T) {
		res, err := eng.Search(ctx, Request{Keyword: "morning"})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), res.Total)
	})

	t.Run("matches text", func(t *testing.T) {
		res, err := eng.Search(ctx, Request{Keyword: "dunia"})
		require.NoError(t, err)
		require.Equal(t, uint64(1), res.Total)
		assert.Equal(t, "1", res.Hits[0].ID)
	})

	t.Run("email narrows results", func(t *testing.T) {
		res, err := eng.Search(ctx, Request{Keyword: "morning", Email: "c@d.com"})
		require.NoError(t, err)
		require.Equal(t, uint64(1), res.Total)
		assert.Equal(t, "3", res.Hits[0].ID)
	})

	t.Run("no keyword matches all", func(t *testing.T) {
		res, err := eng.Search(ctx, Request{})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), res.Total)
	})
}

func TestDeleteRemovesDoc(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Index(ctx, Doc{ID: "1", Title: "gone soon", Text: "x", Email: "a@b.com", CreatedAt: time.Now()}))
	require.NoError(t, eng.Delete(ctx, "1"))

	res, err := eng.Search(ctx, Request{Keyword: "gone"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestClosedEngineRejectsOps(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Close())

	err := eng.Index(context.Background(), Doc{ID: "1"})
	assert.ErrorIs(t, err, ErrClosed)

	_, err = eng.Search(context.Background(), Request{Keyword: "x"})
	assert.ErrorIs(t, err, ErrClosed)
}
