// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"

	"github.com/modelkeep/modelkeep/internal/store"
)

// saltStoreKey is the reserved secret-store key that holds the base64
// encoded key-derivation salt. It lives in the same store as the envelopes
// so the whole at-rest state sits behind one boundary.
const saltStoreKey = "modelkeep-kdf-salt"

const (
	saltLen = 16
	keyLen  = 32

	// kdfIterations is the fixed PBKDF2-HMAC-SHA256 cost factor. Changing
	// it invalidates every stored envelope, so it is a constant, not
	// configuration.
	kdfIterations = 150_000
)

var (
	// ErrDecryptionFailed is returned when an envelope cannot be opened:
	// tampered ciphertext, truncated blob, or a key derived from a
	// different salt/identity. This is always terminal — there is no
	// plaintext fallback.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyNotDerived is returned by Encrypt/Decrypt when DeriveKey has
	// not been called (or Destroy already was).
	ErrKeyNotDerived = errors.New("encryption key not derived")
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	secrets  store.SecretStore
	identity string

	// key holds the derived 32-byte key sealed at rest in memory. It is
	// opened only for the duration of a single Seal/Open call.
	key *memguard.Enclave
}

// NewKeyChain constructs a [KeyChain] bound to the given secret store and
// stable local identity string. The identity is used only as key-derivation
// input; it is never persisted, transmitted, or logged by this package.
func NewKeyChain(secrets store.SecretStore, identity string) KeyChain {
	return &keyChain{
		secrets:  secrets,
		identity: identity,
	}
}

// DeriveKey implements [KeyChain]. The salt is read from the secret store;
// when absent, a fresh 16-byte CSPRNG salt is generated and persisted
// before the key is derived, so every later derivation sees the same salt.
func (k *keyChain) DeriveKey(ctx context.Context) error {
	if k.identity == "" {
		return errors.New("empty identity")
	}

	salt, err := k.loadOrCreateSalt(ctx)
	if err != nil {
		return err
	}

	derived := pbkdf2.Key([]byte(k.identity), salt, kdfIterations, keyLen, sha256.New)

	// NewEnclave copies and wipes the input slice.
	k.key = memguard.NewEnclave(derived)
	return nil
}

func (k *keyChain) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	encoded, ok, err := k.secrets.Get(ctx, saltStoreKey)
	if err != nil {
		return nil, fmt.Errorf("load kdf salt: %w", err)
	}
	if ok {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode kdf salt: %w", err)
		}
		if len(salt) != saltLen {
			return nil, fmt.Errorf("kdf salt has length %d, want %d", len(salt), saltLen)
		}
		return salt, nil
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate kdf salt: %w", err)
	}

	// Persist before first use: a key derived from an unpersisted salt
	// could never decrypt anything again after a restart.
	if err := k.secrets.Store(ctx, saltStoreKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("persist kdf salt: %w", err)
	}
	return salt, nil
}

// Encrypt implements [KeyChain]. The blob layout is nonce (12 bytes) ‖
// ciphertext+tag, base64 (standard encoding). A random nonce per call keeps
// the (key, nonce) pair unique, which AES-GCM requires.
func (k *keyChain) Encrypt(plaintext string) (string, error) {
	if k.key == nil {
		return "", ErrKeyNotDerived
	}

	keyBuf, err := k.key.Open()
	if err != nil {
		return "", fmt.Errorf("open key enclave: %w", err)
	}
	defer keyBuf.Destroy()

	block, err := aes.NewCipher(keyBuf.Bytes())
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	pt := []byte(plaintext)
	ct := gcm.Seal(nil, nonce, pt, nil)
	memguard.WipeBytes(pt)

	blob := append(nonce, ct...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [KeyChain]. Any failure past base64 decoding — short
// blob, wrong key, flipped ciphertext or tag bytes — surfaces as
// [ErrDecryptionFailed]; GCM's authentication check makes tampering and a
// wrong key indistinguishable, and both must fail closed.
func (k *keyChain) Decrypt(envelope string) (string, error) {
	if k.key == nil {
		return "", ErrKeyNotDerived
	}

	blob, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: decode envelope: %w", ErrDecryptionFailed, err)
	}

	keyBuf, err := k.key.Open()
	if err != nil {
		return "", fmt.Errorf("open key enclave: %w", err)
	}
	defer keyBuf.Destroy()

	block, err := aes.NewCipher(keyBuf.Bytes())
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: envelope too short", ErrDecryptionFailed)
	}
	nonce, ct := blob[:nonceSize], blob[nonceSize:]

	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	out := string(pt)
	memguard.WipeBytes(pt)
	return out, nil
}

// Destroy implements [KeyChain].
func (k *keyChain) Destroy() {
	k.key = nil
}
