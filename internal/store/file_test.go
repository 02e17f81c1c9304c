// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (SecretStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secrets.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func TestFileStore_StoreGetDelete(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "key-anthropic")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Store(ctx, "key-anthropic", "envelope-blob"))

	v, ok, err := s.Get(ctx, "key-anthropic")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "envelope-blob", v)

	require.NoError(t, s.Delete(ctx, "key-anthropic"))

	_, ok, err = s.Get(ctx, "key-anthropic")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_DeleteAbsentIsNoError(t *testing.T) {
	s, _ := newTestFileStore(t)

	assert.NoError(t, s.Delete(context.Background(), "never-stored"))
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "key-openai", "blob-1"))
	require.NoError(t, s.Store(ctx, "rotation-openai", `{"last_rotated":"2026-08-30T00:00:00Z"}`))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "key-openai")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "blob-1", v)
}

func TestFileStore_FileModeIsPrivate(t *testing.T) {
	s, path := newTestFileStore(t)

	require.NoError(t, s.Store(context.Background(), "key-a", "v"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.ErrorIs(t, err, ErrDecodingStoreFile)
}

func TestFileStore_ContextCancellation(t *testing.T) {
	s, _ := newTestFileStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(ctx, "key-a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Store(ctx, "key-a", "v"), context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "key-a"), context.Canceled)
}

func TestMemoryStore_Basics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	assert.Zero(t, s.Len())
}
