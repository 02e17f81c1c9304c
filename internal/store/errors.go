// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// Sentinel errors returned by store backends to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrReadingStoreFile is returned when the file backend cannot read
	// its backing file for a reason other than the file not existing yet.
	ErrReadingStoreFile = errors.New("error reading secret store file")

	// ErrDecodingStoreFile is returned when the backing file exists but
	// does not contain a valid serialized store state.
	ErrDecodingStoreFile = errors.New("error decoding secret store file")

	// ErrWritingStoreFile is returned when persisting the store state to
	// disk fails. The in-memory state is left unchanged in that case.
	ErrWritingStoreFile = errors.New("error writing secret store file")

	// ErrKeyringUnavailable is returned when the OS keyring backend cannot
	// reach the platform secret service (locked session, headless host,
	// missing daemon).
	ErrKeyringUnavailable = errors.New("os keyring is unavailable")
)
