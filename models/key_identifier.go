// SPDX-License-Identifier: Apache-2.0

package models

import "strings"

// Provider name constants for the built-in AI providers. A KeyIdentifier's
// Provider field is not restricted to this set; unknown providers are
// handled generically.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
)

// KeyIdentifier addresses a stored credential. A credential is scoped either
// to a whole provider (Model empty) or to a single model of that provider.
//
// The identifier itself is not secret, but it is never written unmasked into
// the audit ledger: the ledger keys entries by a one-way hash of the
// rendered identifier.
type KeyIdentifier struct {
	// Provider is the lower-case provider name, e.g. "anthropic".
	Provider string

	// Model optionally narrows the credential to a single model id,
	// e.g. "gpt-4o". Empty means the key applies to the whole provider.
	Model string
}

// String renders the identifier in its canonical lookup form:
// "provider" or "provider-model".
func (k KeyIdentifier) String() string {
	if k.Model == "" {
		return k.Provider
	}
	return k.Provider + "-" + k.Model
}

// IsZero reports whether the identifier is empty.
func (k KeyIdentifier) IsZero() bool {
	return k.Provider == ""
}

// Masked returns a log-safe rendering of the identifier: the provider name
// in full and the model id reduced to its first two characters. Secrets are
// never part of an identifier, but model ids can still leak deployment
// details into shared logs.
func (k KeyIdentifier) Masked() string {
	if k.Model == "" {
		return k.Provider
	}
	model := k.Model
	if len(model) > 2 {
		model = model[:2] + "***"
	}
	return k.Provider + "-" + model
}

// ParseKeyIdentifier parses the canonical "provider" or "provider-model"
// form produced by [KeyIdentifier.String]. The split happens on the first
// dash: model ids may themselves contain dashes, provider names may not.
func ParseKeyIdentifier(s string) KeyIdentifier {
	provider, model, found := strings.Cut(s, "-")
	if !found {
		return KeyIdentifier{Provider: s}
	}
	return KeyIdentifier{Provider: provider, Model: model}
}
