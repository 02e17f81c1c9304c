// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// AuditEntry accumulates usage statistics for one credential.
//
// Entries live only for the lifetime of the process and are keyed by a
// one-way hash of the credential's identifier, so a leaked ledger cannot be
// reverse-mapped to the credentials it describes.
type AuditEntry struct {
	// HashedKeyID is the hex-encoded SHA-256 digest of the canonical
	// identifier string. The raw identifier is never stored here.
	HashedKeyID string

	// LastUsed is the time of the most recent access, successful or not.
	LastUsed time.Time

	// RequestCount counts every access of the credential.
	RequestCount int64

	// FailedAttempts counts accesses that ended in failure. A failed
	// access increments both counters.
	FailedAttempts int64
}
