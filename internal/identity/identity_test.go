// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "identity")

	first, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	_, err = uuid.Parse(first)
	require.NoError(t, err, "identity is a uuid")

	second, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrCreate_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity")
	require.NoError(t, os.WriteFile(path, []byte("preexisting-identity\n"), 0o600))

	id, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "preexisting-identity", id)
}

func TestLoadOrCreate_EmptyFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestLoadOrCreate_FileModeIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity")

	_, err := LoadOrCreate(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
