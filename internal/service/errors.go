// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

// Sentinel errors returned by the credential service. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned when neither the envelope layout nor the
	// legacy layout holds a credential for the identifier.
	ErrKeyNotFound = errors.New("api key not found")

	// ErrInvalidKeyFormat is returned by StoreKey when the secret fails
	// the minimal shape check. The check is advisory: passing it does not
	// mean the provider will accept the key.
	ErrInvalidKeyFormat = errors.New("api key has invalid format")
)
