// SPDX-License-Identifier: Apache-2.0

// Package service implements the credential lifecycle: the credential
// store with legacy-format migration, the rotation tracker, and the
// in-memory usage audit ledger.
package service

import (
	"context"

	"github.com/modelkeep/modelkeep/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_service_mock.go -package=mock

// CredentialService is the credential store exposed to provider
// integrations and the CLI.
//
// Concurrent calls on different identifiers do not interfere. Concurrent
// store/delete calls on the same identifier are not serialized here;
// callers needing strict ordering must serialize externally.
type CredentialService interface {
	// GetKey returns the decrypted secret for id, recording a successful
	// access in the audit ledger. Lookups probe the envelope scheme
	// first, then the legacy plaintext layout; a legacy hit is migrated
	// to the envelope scheme in place. Returns [ErrKeyNotFound] when no
	// layout has the key.
	GetKey(ctx context.Context, id models.KeyIdentifier) (string, error)

	// StoreKey validates the secret's shape, encrypts it, persists the
	// envelope, and (re)initializes the rotation record. Returns
	// [ErrInvalidKeyFormat] on a failed shape check; nothing is written
	// in that case.
	StoreKey(ctx context.Context, id models.KeyIdentifier, secret string) error

	// DeleteKey removes the envelope, rotation record, and audit entry
	// for id. Deleting an absent key is not an error.
	DeleteKey(ctx context.Context, id models.KeyIdentifier) error

	// CheckRotationNeeded reports whether the credential's age has
	// reached its rotation policy. False when no record or no policy
	// exists.
	CheckRotationNeeded(ctx context.Context, id models.KeyIdentifier) (bool, error)

	// SetRotationPolicy sets the auto-rotate period in days on an
	// existing rotation record (0 clears the policy). Returns
	// [ErrKeyNotFound] when no credential is stored under id.
	SetRotationPolicy(ctx context.Context, id models.KeyIdentifier, days int) error

	// GetRotation returns the rotation record for id, or ok=false when
	// none exists.
	GetRotation(ctx context.Context, id models.KeyIdentifier) (models.RotationRecord, bool, error)

	// GetAudit returns the process-lifetime audit entry for id, or
	// ok=false when the credential has not been accessed yet.
	GetAudit(id models.KeyIdentifier) (models.AuditEntry, bool)
}
