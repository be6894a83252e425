package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit/pkg/redis"
	"github.com/dmitrymomot/trackkit/pkg/storage"
)

type backend interface {
	storage.Storage
	storage.Lister
}

func backends(t *testing.T) map[string]backend {
	t.Helper()

	file, err := storage.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	out := map[string]backend{
		"memory": storage.NewMemory(),
		"file":   file,
		"sqlite": db,
	}

	if url := os.Getenv("TRACKKIT_TEST_REDIS_URL"); url != "" {
		client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: url, RetryAttempts: 1})
		require.NoError(t, err)
		r := storage.NewRedis(client, "trackkit-test:"+t.Name()+":")
		t.Cleanup(func() {
			_ = r.Clear(context.Background())
			_ = r.Close()
		})
		out["redis"] = r
	}
	return out
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.True(t, s.Supported())

			v, err := s.GetItem(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, v)

			require.NoError(t, s.SetItem(ctx, "uuId", "abc-123"))
			require.NoError(t, s.SetItem(ctx, "signature", `{"a":1}`))

			v, err = s.GetItem(ctx, "uuId")
			require.NoError(t, err)
			assert.Equal(t, "abc-123", v)

			require.NoError(t, s.SetItem(ctx, "uuId", "def-456"))
			v, err = s.GetItem(ctx, "uuId")
			require.NoError(t, err)
			assert.Equal(t, "def-456", v)

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"uuId", "signature"}, keys)

			require.NoError(t, s.RemoveItem(ctx, "uuId"))
			v, err = s.GetItem(ctx, "uuId")
			require.NoError(t, err)
			assert.Empty(t, v)

			require.NoError(t, s.Clear(ctx))
			keys, err = s.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestMemory_SetAvailable(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	require.NoError(t, m.SetItem(ctx, "k", "v"))

	m.SetAvailable(false)
	assert.False(t, m.Supported())
	_, err := m.GetItem(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.ErrorIs(t, m.SetItem(ctx, "k", "x"), storage.ErrUnavailable)
	assert.ErrorIs(t, m.RemoveItem(ctx, "k"), storage.ErrUnavailable)
	assert.ErrorIs(t, m.Clear(ctx), storage.ErrUnavailable)

	m.SetAvailable(true)
	v, err := m.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestFile_SharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	a, err := storage.NewFile(path)
	require.NoError(t, err)
	b, err := storage.NewFile(path)
	require.NoError(t, err)

	require.NoError(t, a.SetItem(ctx, "uuId", "u1"))
	v, err := b.GetItem(ctx, "uuId")
	require.NoError(t, err)
	assert.Equal(t, "u1", v)
	assert.Equal(t, path, b.Path())
}

func TestFile_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	f, err := storage.NewFile(path)
	require.NoError(t, err)

	_, err = f.GetItem(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrCorrupted)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.db")

	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.SetItem(ctx, "signature", "s1"))
	require.NoError(t, db.Close())

	db, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, err := db.GetItem(ctx, "signature")
	require.NoError(t, err)
	assert.Equal(t, "s1", v)
}
