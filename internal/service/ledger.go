// SPDX-License-Identifier: Apache-2.0

package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/modelkeep/modelkeep/models"
)

// Ledger is the in-memory usage audit for stored credentials. It is owned
// by the credential service and lives exactly as long as the process; no
// entry is ever persisted.
//
// Entries are keyed by a one-way hash of the identifier, never the
// identifier itself, so the ledger alone cannot be mapped back to the
// credentials it describes.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*models.AuditEntry
	now     func() time.Time
}

// NewLedger returns an empty audit ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]*models.AuditEntry),
		now:     time.Now,
	}
}

// HashKeyID returns the ledger key for an identifier: the hex-encoded
// SHA-256 digest of its canonical string form.
func HashKeyID(id models.KeyIdentifier) string {
	sum := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(sum[:])
}

// RecordSuccess notes one successful access: the request counter is
// incremented, the failure counter is not.
func (l *Ledger) RecordSuccess(id models.KeyIdentifier) {
	l.record(id, false)
}

// RecordFailure notes one failed access: both counters are incremented.
func (l *Ledger) RecordFailure(id models.KeyIdentifier) {
	l.record(id, true)
}

func (l *Ledger) record(id models.KeyIdentifier, failed bool) {
	hashed := HashKeyID(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[hashed]
	if !ok {
		entry = &models.AuditEntry{HashedKeyID: hashed}
		l.entries[hashed] = entry
	}
	entry.LastUsed = l.now()
	entry.RequestCount++
	if failed {
		entry.FailedAttempts++
	}
}

// Get returns a copy of the audit entry for id, or ok=false when the
// credential has not been accessed during this process's lifetime.
func (l *Ledger) Get(id models.KeyIdentifier) (models.AuditEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[HashKeyID(id)]
	if !ok {
		return models.AuditEntry{}, false
	}
	return *entry, true
}

// Remove drops the audit entry for id, if any. Called when the credential
// itself is deleted.
func (l *Ledger) Remove(id models.KeyIdentifier) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, HashKeyID(id))
}

// Len reports the number of tracked entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
