// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_DefaultsOnly(t *testing.T) {
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.NotEmpty(t, cfg.Identity.Path)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestGetConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("MODELKEEP_STORE_BACKEND", "keyring")
	t.Setenv("MODELKEEP_RETRY_MAX_RETRIES", "7")
	t.Setenv("MODELKEEP_RETRY_INITIAL_DELAY", "250ms")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendKeyring, cfg.Store.Backend)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay)
	// Untouched values keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestGetConfig_JSONOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"store": {"backend": "file", "path": "/tmp/mk.json"},
		"retry": {"max_retries": 1, "initial_delay": "2s", "max_delay": "10s", "multiplier": 3},
		"log": {"level": "debug"}
	}`), 0o600))

	t.Setenv("MODELKEEP_CONFIG", path)
	t.Setenv("MODELKEEP_LOG_LEVEL", "warn")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mk.json", cfg.Store.Path)
	assert.Equal(t, 1, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, float64(3), cfg.Retry.Multiplier)
	assert.Equal(t, "debug", cfg.Log.Level, "json layer wins over env")
}

func TestGetConfig_UnknownBackendRejected(t *testing.T) {
	t.Setenv("MODELKEEP_STORE_BACKEND", "etcd")

	_, err := GetConfig()
	assert.ErrorIs(t, err, ErrInvalidStoreConfigs)
}

func TestGetConfig_BadRetrySettingsRejected(t *testing.T) {
	t.Setenv("MODELKEEP_RETRY_MULTIPLIER", "0.5")

	_, err := GetConfig()
	assert.ErrorIs(t, err, ErrInvalidRetryConfigs)
}

func TestGetConfig_MissingJSONFileIsAnError(t *testing.T) {
	t.Setenv("MODELKEEP_CONFIG", filepath.Join(t.TempDir(), "nope.json"))

	_, err := GetConfig()
	assert.Error(t, err)
}
