package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printscript/snippet-manager/internal/apperror"
)

func newTestFSStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFSStore_PutGet(t *testing.T) {
	store := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snip-1", []byte("let x = 1;")))

	content, err := store.Get(ctx, "snip-1")
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;", string(content))
}

func TestFSStore_PutOverwrites(t *testing.T) {
	store := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snip-1", []byte("old")))
	require.NoError(t, store.Put(ctx, "snip-1", []byte("new")))

	content, err := store.Get(ctx, "snip-1")
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestFSStore_GetMissing(t *testing.T) {
	store := newTestFSStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func TestFSStore_DeleteIdempotent(t *testing.T) {
	store := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snip-1", []byte("body")))
	require.NoError(t, store.Delete(ctx, "snip-1"))

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, "snip-1"))

	_, err := store.Get(ctx, "snip-1")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestFSStore_RejectsPathTraversalKeys(t *testing.T) {
	store := newTestFSStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b", `a\b`, "../escape"} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), "key %q should be rejected", key)
	}
}

func TestFSStore_EmptyBody(t *testing.T) {
	store := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snip-1", nil))

	content, err := store.Get(ctx, "snip-1")
	require.NoError(t, err)
	assert.Empty(t, content)
}
