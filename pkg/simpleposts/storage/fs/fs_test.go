package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-posts/pkg/simpleposts"
)

func newTestStore(t *testing.T) simpleposts.BlobStore {
	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Run("requires a base directory", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})

	t.Run("creates the base directory", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "blobs")
		_, err := New(Config{BaseDir: base})
		require.NoError(t, err)

		info, err := os.Stat(base)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	content := []byte("blob content")

	t.Run("add and get round trip", func(t *testing.T) {
		address, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		assert.Len(t, address, 64)

		reader, err := store.Get(ctx, address)
		require.NoError(t, err)
		defer reader.Close()

		got, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("re-adding the same content is idempotent", func(t *testing.T) {
		first, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		second, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("same content hashes to the same address across stores", func(t *testing.T) {
		other := newTestStore(t)

		a, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		b, err := other.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("get unknown address", func(t *testing.T) {
		_, err := store.Get(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, simpleposts.ErrBlobNotFound)
	})

	t.Run("has", func(t *testing.T) {
		address, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)

		exists, err := store.Has(ctx, address)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Has(ctx, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("blobs shard by address prefix", func(t *testing.T) {
		base := t.TempDir()
		sharded, err := New(Config{BaseDir: base})
		require.NoError(t, err)

		address, err := sharded.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(base, address[:2], address))
		assert.NoError(t, err)
	})
}
