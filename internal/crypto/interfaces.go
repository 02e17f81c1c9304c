// SPDX-License-Identifier: Apache-2.0

package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

// KeyChain owns the envelope encryption of stored credentials. It knows
// nothing about providers, rotation, or auditing; its only job is to turn
// plaintext secrets into self-contained ciphertext blobs and back.
//
// Scheme:
//
//	salt = load-or-create persisted random salt    (DeriveKey, once)
//	key  = PBKDF2(identity, salt)                  (DeriveKey, once)
//	blob = base64(nonce ‖ AES-256-GCM(key, secret)) (Encrypt, per call)
//
// The derived key is sealed in a memguard enclave between calls and is
// only opened transiently inside Encrypt/Decrypt.
type KeyChain interface {
	// DeriveKey loads the persisted salt (creating and persisting it on
	// first use) and derives the process-lifetime encryption key from the
	// stable local identity and that salt. Deterministic for the same
	// salt and identity. Must be called before Encrypt or Decrypt.
	DeriveKey(ctx context.Context) error

	// Encrypt seals plaintext into an opaque envelope blob. A fresh
	// random nonce is generated on every call; encrypting the same
	// plaintext twice never yields the same blob.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens an envelope blob produced by Encrypt. It fails with
	// [ErrDecryptionFailed] when the blob was tampered with or was sealed
	// under a different key. It never returns corrupted plaintext.
	Decrypt(envelope string) (string, error)

	// Destroy discards the derived key material. The KeyChain is unusable
	// afterwards until DeriveKey is called again. Idempotent.
	Destroy()
}
