// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when the merged
// configuration is incomplete or inconsistent.
var (
	// ErrInvalidStoreConfigs indicates invalid secret store settings
	// (unknown backend, or a file backend without a path).
	ErrInvalidStoreConfigs = errors.New("invalid store configuration")

	// ErrInvalidRetryConfigs indicates invalid retry settings (negative
	// retry count or a multiplier below 1).
	ErrInvalidRetryConfigs = errors.New("invalid retry configuration")
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Store.Backend {
	case BackendFile:
		if cfg.Store.Path == "" {
			return ErrInvalidStoreConfigs
		}
	case BackendKeyring:
	default:
		return ErrInvalidStoreConfigs
	}

	if cfg.Retry.MaxRetries < 0 || cfg.Retry.Multiplier < 1 {
		return ErrInvalidRetryConfigs
	}
	if cfg.Retry.InitialDelay < 0 || cfg.Retry.MaxDelay < 0 {
		return ErrInvalidRetryConfigs
	}

	return nil
}
