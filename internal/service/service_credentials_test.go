// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/modelkeep/modelkeep/internal/crypto"
	"github.com/modelkeep/modelkeep/internal/logger"
	"github.com/modelkeep/modelkeep/internal/mock"
	"github.com/modelkeep/modelkeep/internal/store"
	"github.com/modelkeep/modelkeep/models"
)

const testSecret = "sk-test-0123456789abcdef"

// newTestService wires a credential service over an in-memory store and a
// real keychain.
func newTestService(t *testing.T) (*credentialService, *store.MemoryStore) {
	t.Helper()

	secrets := store.NewMemoryStore()
	keychain := crypto.NewKeyChain(secrets, "machine-identity-0001")
	require.NoError(t, keychain.DeriveKey(context.Background()))

	svc := NewCredentialService(secrets, keychain, logger.Nop()).(*credentialService)
	return svc, secrets
}

// ── GetKey / StoreKey ───────────────────────────────────────────────────────

func TestStoreAndGetKey_RoundTrip(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))

	got, err := svc.GetKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)

	// The store never sees the plaintext.
	blob, ok, err := secrets.Get(ctx, envelopeStoreKey(id))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, blob, testSecret)
}

func TestGetKey_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetKey(context.Background(), models.KeyIdentifier{Provider: "openai"})
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGetKey_ModelScopedAndProviderScopedAreSeparate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	providerWide := models.KeyIdentifier{Provider: "openai"}
	modelScoped := models.KeyIdentifier{Provider: "openai", Model: "gpt-4o"}

	require.NoError(t, svc.StoreKey(ctx, providerWide, "sk-provider-wide-key"))
	require.NoError(t, svc.StoreKey(ctx, modelScoped, "sk-model-scoped-key"))

	got, err := svc.GetKey(ctx, modelScoped)
	require.NoError(t, err)
	assert.Equal(t, "sk-model-scoped-key", got)

	got, err = svc.GetKey(ctx, providerWide)
	require.NoError(t, err)
	assert.Equal(t, "sk-provider-wide-key", got)
}

func TestStoreKey_InvalidFormat(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	for _, secret := range []string{
		"",
		"short",
		"has a space inside",
		"trailing-newline\n",
		"ключ-not-ascii",
	} {
		err := svc.StoreKey(ctx, id, secret)
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, "secret %q", secret)
	}

	// Nothing was written for any rejected secret.
	_, ok, err := secrets.Get(ctx, envelopeStoreKey(id))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = secrets.Get(ctx, rotationStoreKey(id))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreKey_OverwritesPreviousValue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "google"}

	require.NoError(t, svc.StoreKey(ctx, id, "sk-old-value-123"))
	require.NoError(t, svc.StoreKey(ctx, id, "sk-new-value-456"))

	got, err := svc.GetKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sk-new-value-456", got)
}

// ── DeleteKey ───────────────────────────────────────────────────────────────

func TestDeleteKey_RemovesEverything(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))
	_, err := svc.GetKey(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteKey(ctx, id))

	_, err = svc.GetKey(ctx, id)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, ok, _ := secrets.Get(ctx, rotationStoreKey(id))
	assert.False(t, ok, "rotation record must be removed")

	// The failed GetKey above already created a fresh audit entry, so
	// check the pre-delete entry was dropped by inspecting counts.
	entry, ok := svc.GetAudit(id)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.RequestCount, "audit was reset on delete")
}

func TestDeleteKey_AbsentIsNoError(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteKey(context.Background(), models.KeyIdentifier{Provider: "nonexistent"})
	assert.NoError(t, err)
}

// ── Audit ───────────────────────────────────────────────────────────────────

func TestGetAudit_AccumulatesAcrossOutcomes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))

	_, err := svc.GetKey(ctx, id) // success
	require.NoError(t, err)

	missing := models.KeyIdentifier{Provider: "anthropic", Model: "claude-nope"}
	_, err = svc.GetKey(ctx, missing) // failure
	require.Error(t, err)
	_, err = svc.GetKey(ctx, id) // success
	require.NoError(t, err)

	entry, ok := svc.GetAudit(id)
	require.True(t, ok)
	assert.EqualValues(t, 2, entry.RequestCount)
	assert.EqualValues(t, 0, entry.FailedAttempts)

	entry, ok = svc.GetAudit(missing)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.RequestCount)
	assert.EqualValues(t, 1, entry.FailedAttempts)
}

func TestGetAudit_DecryptionFailureCounts(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))

	// Corrupt the stored envelope behind the service's back.
	require.NoError(t, secrets.Store(ctx, envelopeStoreKey(id), "bm90IGEgdmFsaWQgZW52ZWxvcGU="))

	_, err := svc.GetKey(ctx, id)
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	entry, ok := svc.GetAudit(id)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.RequestCount)
	assert.EqualValues(t, 1, entry.FailedAttempts)
}

// ── Rotation ────────────────────────────────────────────────────────────────

func TestCheckRotationNeeded_NoRecordNoPolicy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	// No record at all.
	due, err := svc.CheckRotationNeeded(ctx, id)
	require.NoError(t, err)
	assert.False(t, due)

	// Record exists but carries no policy.
	require.NoError(t, svc.StoreKey(ctx, id, testSecret))
	due, err = svc.CheckRotationNeeded(ctx, id)
	require.NoError(t, err)
	assert.False(t, due)
}

func TestCheckRotationNeeded_Boundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))
	require.NoError(t, svc.SetRotationPolicy(ctx, id, 90))

	stored := time.Now()

	svc.now = func() time.Time { return stored.AddDate(0, 0, 89) }
	due, err := svc.CheckRotationNeeded(ctx, id)
	require.NoError(t, err)
	assert.False(t, due, "89 days old: not due")

	svc.now = func() time.Time { return stored.AddDate(0, 0, 90) }
	due, err = svc.CheckRotationNeeded(ctx, id)
	require.NoError(t, err)
	assert.True(t, due, "90 days old: due")
}

func TestStoreKey_ResetsRotationRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "openai"}

	require.NoError(t, svc.StoreKey(ctx, id, testSecret))
	require.NoError(t, svc.SetRotationPolicy(ctx, id, 30))

	// Re-storing overwrites the record wholesale: new timestamp, policy gone.
	require.NoError(t, svc.StoreKey(ctx, id, "sk-rotated-value-789"))

	record, ok, err := svc.GetRotation(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, record.AutoRotateAfterDays)
	assert.WithinDuration(t, time.Now(), record.LastRotated, time.Minute)
}

func TestSetRotationPolicy_RequiresStoredKey(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SetRotationPolicy(context.Background(), models.KeyIdentifier{Provider: "openai"}, 90)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// ── Legacy migration ────────────────────────────────────────────────────────

func TestGetKey_LegacyMigration(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	// Seed the pre-envelope layout: plaintext under "apiKey-<provider>".
	require.NoError(t, secrets.Store(ctx, legacyStoreKey(id), testSecret))

	got, err := svc.GetKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)

	// Migrated: envelope exists, legacy entry is gone.
	blob, ok, err := secrets.Get(ctx, envelopeStoreKey(id))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, blob, testSecret)

	_, ok, err = secrets.Get(ctx, legacyStoreKey(id))
	require.NoError(t, err)
	assert.False(t, ok)

	// A rotation record was initialized by the migration's re-store.
	_, ok, err = svc.GetRotation(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second read goes straight through the envelope path.
	got, err = svc.GetKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)
}

func TestGetKey_LegacyIgnoredForModelScopedIdentifiers(t *testing.T) {
	svc, secrets := newTestService(t)
	ctx := context.Background()

	require.NoError(t, secrets.Store(ctx, "apiKey-anthropic", testSecret))

	_, err := svc.GetKey(ctx, models.KeyIdentifier{Provider: "anthropic", Model: "claude-sonnet-4"})
	assert.ErrorIs(t, err, ErrKeyNotFound, "legacy layout never held model-scoped keys")
}

func TestGetKey_LegacyMigrationKeepsOldEntryWhenRestoreFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "anthropic"}

	mockStore := mock.NewMockSecretStore(ctrl)
	mockKeychain := mock.NewMockKeyChain(ctrl)
	svc := NewCredentialService(mockStore, mockKeychain, logger.Nop()).(*credentialService)

	storeErr := errors.New("disk full")

	// Envelope miss, legacy hit.
	mockStore.EXPECT().Get(ctx, envelopeStoreKey(id)).Return("", false, nil)
	mockStore.EXPECT().Get(ctx, legacyStoreKey(id)).Return(testSecret, true, nil)
	// Migration tries to re-store and the write fails.
	mockKeychain.EXPECT().Encrypt(testSecret).Return("blob", nil)
	mockStore.EXPECT().Store(ctx, envelopeStoreKey(id), "blob").Return(storeErr)
	// Crucially: no Delete of the legacy entry is expected.

	got, err := svc.GetKey(ctx, id)
	require.NoError(t, err, "caller still gets the secret")
	assert.Equal(t, testSecret, got)
}

func TestGetKey_StoreErrorSurfacesAndCountsAsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	id := models.KeyIdentifier{Provider: "openai"}

	mockStore := mock.NewMockSecretStore(ctrl)
	mockKeychain := mock.NewMockKeyChain(ctrl)
	svc := NewCredentialService(mockStore, mockKeychain, logger.Nop()).(*credentialService)

	mockStore.EXPECT().Get(ctx, envelopeStoreKey(id)).Return("", false, errors.New("backend down"))

	_, err := svc.GetKey(ctx, id)
	require.Error(t, err)

	entry, ok := svc.GetAudit(id)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.FailedAttempts)
}
