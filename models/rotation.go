// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// RotationRecord tracks the rotation age of a stored credential.
//
// A record is (re)created every time the credential is stored: re-storing a
// key counts as a rotation, and the new record overwrites the old one
// wholesale — fields are never merged.
type RotationRecord struct {
	// LastRotated is the moment the credential was last stored.
	LastRotated time.Time `json:"last_rotated"`

	// AutoRotateAfterDays is the rotation policy: the maximum age in days
	// before rotation is considered due. Zero means no policy is set and
	// rotation is never reported as needed.
	AutoRotateAfterDays int `json:"auto_rotate_after_days,omitempty"`
}

// RotationDue reports whether the credential's age at the given moment has
// reached the policy threshold. The boundary is inclusive: a key exactly
// AutoRotateAfterDays old is due.
func (r RotationRecord) RotationDue(now time.Time) bool {
	if r.AutoRotateAfterDays <= 0 || r.LastRotated.IsZero() {
		return false
	}
	elapsedDays := int(now.Sub(r.LastRotated).Hours() / 24)
	return elapsedDays >= r.AutoRotateAfterDays
}
