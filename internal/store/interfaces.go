// SPDX-License-Identifier: Apache-2.0

// Package store defines the secret key/value boundary that the credential
// lifecycle consumes, together with its backends: a JSON file store, an OS
// keyring store, and an in-memory store.
//
// Values held by a SecretStore are opaque strings; encryption happens above
// this layer. The store must therefore be treated as untrusted at rest —
// only already-enveloped ciphertext, salts, and rotation metadata are
// handed to it.
package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/secret_store_mock.go -package=mock

// SecretStore is the only persistence boundary of the credential lifecycle.
//
// Keys are opaque strings chosen by the caller. Get reports absence via its
// second return value, not an error. Delete of an absent key is a no-op.
type SecretStore interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Store persists value under key, overwriting any previous value.
	Store(ctx context.Context, key, value string) error

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
