// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelkeep/modelkeep/internal/crypto"
	"github.com/modelkeep/modelkeep/internal/logger"
	"github.com/modelkeep/modelkeep/internal/store"
	"github.com/modelkeep/modelkeep/models"
)

// credentialService is the private implementation of [CredentialService].
type credentialService struct {
	secrets    store.SecretStore
	keychain   crypto.KeyChain
	ledger     *Ledger
	strategies []lookupStrategy
	log        *logger.Logger

	// now is injectable for rotation-boundary tests.
	now func() time.Time
}

// NewCredentialService constructs a [CredentialService] over the given
// secret store and keychain. The audit ledger is owned by the service and
// shared with no one else; callers query it through GetAudit.
func NewCredentialService(secrets store.SecretStore, keychain crypto.KeyChain, log *logger.Logger) CredentialService {
	return &credentialService{
		secrets:  secrets,
		keychain: keychain,
		ledger:   NewLedger(),
		strategies: []lookupStrategy{
			&envelopeLookup{secrets: secrets, keychain: keychain},
			&legacyLookup{secrets: secrets},
		},
		log: log,
		now: time.Now,
	}
}

// GetKey implements [CredentialService].
func (s *credentialService) GetKey(ctx context.Context, id models.KeyIdentifier) (string, error) {
	for _, strategy := range s.strategies {
		secret, ok, err := strategy.lookup(ctx, id)
		if err != nil {
			s.ledger.RecordFailure(id)
			return "", fmt.Errorf("%s lookup for %s: %w", strategy.name(), id.Masked(), err)
		}
		if !ok {
			continue
		}

		if strategy.needsMigration() {
			if err := s.migrateLegacy(ctx, id, secret); err != nil {
				// The legacy entry is still intact; the caller got a
				// usable secret, so migration failure is not fatal.
				s.log.Warn().Err(err).Str("key", id.Masked()).Msg("legacy migration failed, will retry on next access")
			}
		}

		s.ledger.RecordSuccess(id)
		return secret, nil
	}

	s.ledger.RecordFailure(id)
	return "", fmt.Errorf("%w: %s", ErrKeyNotFound, id.Masked())
}

// migrateLegacy re-stores a legacy plaintext credential under the envelope
// scheme and removes the legacy entry. Order matters: the legacy entry is
// deleted only after the envelope write is confirmed, so at least one copy
// exists at every point. Running it twice is harmless — the second run
// finds the envelope first and never reaches the legacy strategy.
func (s *credentialService) migrateLegacy(ctx context.Context, id models.KeyIdentifier, secret string) error {
	if err := s.StoreKey(ctx, id, secret); err != nil {
		return fmt.Errorf("re-store under envelope scheme: %w", err)
	}
	if err := s.secrets.Delete(ctx, legacyStoreKey(id)); err != nil {
		return fmt.Errorf("delete legacy entry: %w", err)
	}

	s.log.Info().Str("key", id.Masked()).Msg("migrated legacy credential to envelope scheme")
	return nil
}

// StoreKey implements [CredentialService].
func (s *credentialService) StoreKey(ctx context.Context, id models.KeyIdentifier, secret string) error {
	if err := validateSecretFormat(secret); err != nil {
		return err
	}

	blob, err := s.keychain.Encrypt(secret)
	if err != nil {
		return fmt.Errorf("encrypt secret for %s: %w", id.Masked(), err)
	}
	if err = s.secrets.Store(ctx, envelopeStoreKey(id), blob); err != nil {
		return fmt.Errorf("persist envelope for %s: %w", id.Masked(), err)
	}

	// Storing counts as a rotation: the record is overwritten wholesale,
	// dropping any previous policy along with the old timestamp.
	record := models.RotationRecord{LastRotated: s.now()}
	if err = s.writeRotation(ctx, id, record); err != nil {
		return err
	}

	s.log.Debug().Str("key", id.Masked()).Msg("stored credential")
	return nil
}

// DeleteKey implements [CredentialService].
func (s *credentialService) DeleteKey(ctx context.Context, id models.KeyIdentifier) error {
	if err := s.secrets.Delete(ctx, envelopeStoreKey(id)); err != nil {
		return fmt.Errorf("delete envelope for %s: %w", id.Masked(), err)
	}
	if err := s.secrets.Delete(ctx, rotationStoreKey(id)); err != nil {
		return fmt.Errorf("delete rotation record for %s: %w", id.Masked(), err)
	}
	if id.Model == "" {
		// Provider-scope deletes also clear any never-migrated legacy
		// entry; leaving it behind would resurrect the key on next read.
		if err := s.secrets.Delete(ctx, legacyStoreKey(id)); err != nil {
			return fmt.Errorf("delete legacy entry for %s: %w", id.Masked(), err)
		}
	}
	s.ledger.Remove(id)

	s.log.Debug().Str("key", id.Masked()).Msg("deleted credential")
	return nil
}

// CheckRotationNeeded implements [CredentialService].
func (s *credentialService) CheckRotationNeeded(ctx context.Context, id models.KeyIdentifier) (bool, error) {
	record, ok, err := s.GetRotation(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	return record.RotationDue(s.now()), nil
}

// SetRotationPolicy implements [CredentialService].
func (s *credentialService) SetRotationPolicy(ctx context.Context, id models.KeyIdentifier, days int) error {
	if days < 0 {
		return fmt.Errorf("rotation period must not be negative, got %d", days)
	}

	record, ok, err := s.GetRotation(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, id.Masked())
	}

	record.AutoRotateAfterDays = days
	return s.writeRotation(ctx, id, record)
}

// GetRotation implements [CredentialService].
func (s *credentialService) GetRotation(ctx context.Context, id models.KeyIdentifier) (models.RotationRecord, bool, error) {
	raw, ok, err := s.secrets.Get(ctx, rotationStoreKey(id))
	if err != nil {
		return models.RotationRecord{}, false, fmt.Errorf("read rotation record for %s: %w", id.Masked(), err)
	}
	if !ok {
		return models.RotationRecord{}, false, nil
	}

	var record models.RotationRecord
	if err = json.Unmarshal([]byte(raw), &record); err != nil {
		return models.RotationRecord{}, false, fmt.Errorf("decode rotation record for %s: %w", id.Masked(), err)
	}
	return record, true, nil
}

func (s *credentialService) writeRotation(ctx context.Context, id models.KeyIdentifier, record models.RotationRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode rotation record for %s: %w", id.Masked(), err)
	}
	if err = s.secrets.Store(ctx, rotationStoreKey(id), string(raw)); err != nil {
		return fmt.Errorf("persist rotation record for %s: %w", id.Masked(), err)
	}
	return nil
}

// GetAudit implements [CredentialService].
func (s *credentialService) GetAudit(id models.KeyIdentifier) (models.AuditEntry, bool) {
	return s.ledger.Get(id)
}

// validateSecretFormat is the advisory shape check applied on store: a
// trimmed length of at least 8 and printable non-space ASCII throughout.
// Providers' real key formats are stricter, but format drift between them
// is frequent enough that anything tighter would reject valid keys.
func validateSecretFormat(secret string) error {
	if len(secret) < 8 {
		return fmt.Errorf("%w: too short", ErrInvalidKeyFormat)
	}
	for _, r := range secret {
		if r <= ' ' || r > '~' {
			return fmt.Errorf("%w: contains whitespace or non-printable characters", ErrInvalidKeyFormat)
		}
	}
	return nil
}
