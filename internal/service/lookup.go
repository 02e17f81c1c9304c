// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/modelkeep/modelkeep/internal/crypto"
	"github.com/modelkeep/modelkeep/internal/store"
	"github.com/modelkeep/modelkeep/models"
)

// Secret-store key layouts. The envelope layout is current; the legacy
// layout predates both envelope encryption and per-model keys, so it is
// keyed by bare provider name and holds plaintext.
const (
	envelopeKeyPrefix = "key-"
	rotationKeyPrefix = "rotation-"
	legacyKeyPrefix   = "apiKey-"
)

func envelopeStoreKey(id models.KeyIdentifier) string { return envelopeKeyPrefix + id.String() }
func rotationStoreKey(id models.KeyIdentifier) string { return rotationKeyPrefix + id.String() }
func legacyStoreKey(id models.KeyIdentifier) string   { return legacyKeyPrefix + id.Provider }

// lookupStrategy probes one storage layout for a credential. Strategies
// are tried in priority order until one hits; each is independent of the
// others and performs no writes.
type lookupStrategy interface {
	// name labels the strategy in logs.
	name() string

	// lookup returns the decrypted secret for id, ok=false on a clean
	// miss, or an error when the layout holds an entry that cannot be
	// used (e.g. an undecryptable envelope).
	lookup(ctx context.Context, id models.KeyIdentifier) (secret string, ok bool, err error)

	// needsMigration reports whether a hit in this layout must be
	// re-stored under the envelope scheme.
	needsMigration() bool
}

// envelopeLookup reads the current layout: an encrypted envelope under
// "key-<identifier>".
type envelopeLookup struct {
	secrets  store.SecretStore
	keychain crypto.KeyChain
}

func (s *envelopeLookup) name() string         { return "envelope" }
func (s *envelopeLookup) needsMigration() bool { return false }

func (s *envelopeLookup) lookup(ctx context.Context, id models.KeyIdentifier) (string, bool, error) {
	blob, ok, err := s.secrets.Get(ctx, envelopeStoreKey(id))
	if err != nil {
		return "", false, fmt.Errorf("read envelope: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	secret, err := s.keychain.Decrypt(blob)
	if err != nil {
		// An existing envelope that will not open is a hard failure,
		// never a fall-through to another layout.
		return "", false, err
	}
	return secret, true, nil
}

// legacyLookup reads the pre-envelope layout: a plaintext value under
// "apiKey-<provider>". Model-scoped identifiers never existed in that
// layout, so they always miss here.
type legacyLookup struct {
	secrets store.SecretStore
}

func (s *legacyLookup) name() string         { return "legacy" }
func (s *legacyLookup) needsMigration() bool { return true }

func (s *legacyLookup) lookup(ctx context.Context, id models.KeyIdentifier) (string, bool, error) {
	if id.Model != "" {
		return "", false, nil
	}

	secret, ok, err := s.secrets.Get(ctx, legacyStoreKey(id))
	if err != nil {
		return "", false, fmt.Errorf("read legacy entry: %w", err)
	}
	return secret, ok, nil
}
