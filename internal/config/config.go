// SPDX-License-Identifier: Apache-2.0

// Package config loads and merges modelkeep configuration from environment
// variables and an optional JSON file. Per-invocation overrides are the CLI
// layer's job; this package only produces the base configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Store backend names accepted by [Store.Backend].
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// StructuredConfig is the top-level configuration container for modelkeep.
// It is populated by merging values from environment variables and an
// optional JSON file, with built-in defaults as the base layer.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Store selects and parameterizes the secret store backend.
	Store Store `envPrefix:"STORE_" json:"store,omitempty"`

	// Identity locates the persisted installation identity used as
	// key-derivation input.
	Identity Identity `envPrefix:"IDENTITY_" json:"identity,omitempty"`

	// Rotation holds rotation-policy defaults.
	Rotation Rotation `envPrefix:"ROTATION_" json:"rotation,omitempty"`

	// Retry holds the backoff settings applied to provider calls.
	Retry Retry `envPrefix:"RETRY_" json:"retry,omitempty"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_" json:"log,omitempty"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables.
	// Env: MODELKEEP_CONFIG.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// Store selects the secret store backend.
type Store struct {
	// Backend is "file" or "keyring".
	// Env: MODELKEEP_STORE_BACKEND.
	Backend string `env:"BACKEND" json:"backend"`

	// Path is the secret store file location for the file backend.
	// Env: MODELKEEP_STORE_PATH.
	Path string `env:"PATH" json:"path"`

	// KeyringService is the OS keyring service name for the keyring
	// backend.
	// Env: MODELKEEP_STORE_KEYRING_SERVICE.
	KeyringService string `env:"KEYRING_SERVICE" json:"keyring_service"`
}

// Identity locates the persisted installation identity. The identity value
// itself never appears in configuration; only its path does.
type Identity struct {
	// Path is the identity file location.
	// Env: MODELKEEP_IDENTITY_PATH.
	Path string `env:"PATH" json:"path"`
}

// Rotation holds rotation-policy defaults applied by the CLI.
type Rotation struct {
	// DefaultMaxAgeDays is the auto-rotate period suggested when a key is
	// stored without an explicit policy. Zero means no default policy.
	// Env: MODELKEEP_ROTATION_DEFAULT_MAX_AGE_DAYS.
	DefaultMaxAgeDays int `env:"DEFAULT_MAX_AGE_DAYS" json:"default_max_age_days"`
}

// Retry holds backoff settings for provider calls.
type Retry struct {
	// MaxRetries bounds retries after the first attempt.
	// Env: MODELKEEP_RETRY_MAX_RETRIES.
	MaxRetries int `env:"MAX_RETRIES" json:"max_retries"`

	// InitialDelay is the backoff before the first retry.
	// Env: MODELKEEP_RETRY_INITIAL_DELAY.
	InitialDelay time.Duration `env:"INITIAL_DELAY" json:"initial_delay"`

	// MaxDelay caps the computed backoff.
	// Env: MODELKEEP_RETRY_MAX_DELAY.
	MaxDelay time.Duration `env:"MAX_DELAY" json:"max_delay"`

	// Multiplier grows the delay per attempt.
	// Env: MODELKEEP_RETRY_MULTIPLIER.
	Multiplier float64 `env:"MULTIPLIER" json:"multiplier"`
}

// Log holds logging settings.
type Log struct {
	// Level is a zerolog level name: "debug", "info", "warn", "error".
	// Env: MODELKEEP_LOG_LEVEL.
	Level string `env:"LEVEL" json:"level"`
}

// defaults returns the built-in base configuration layer. State lives under
// the user config dir so the CLI works with zero configuration.
func defaults() *StructuredConfig {
	stateDir := filepath.Join(userConfigDir(), "modelkeep")

	return &StructuredConfig{
		Store: Store{
			Backend:        BackendFile,
			Path:           filepath.Join(stateDir, "secrets.json"),
			KeyringService: "modelkeep",
		},
		Identity: Identity{
			Path: filepath.Join(stateDir, "identity"),
		},
		Retry: Retry{
			MaxRetries:   3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
		},
		Log: Log{
			Level: "info",
		},
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}
