// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringSecretStore is a SecretStore backed by the operating system's
// credential manager (macOS Keychain, Linux Secret Service, Windows
// Credential Manager) via zalando/go-keyring.
//
// Every store key becomes an account name under a single keyring service,
// so all modelkeep entries are grouped together in the OS credential UI.
type keyringSecretStore struct {
	service string
}

// NewKeyringStore returns a SecretStore backed by the OS keyring under the
// given service name. An empty service defaults to "modelkeep".
func NewKeyringStore(service string) SecretStore {
	if service == "" {
		service = "modelkeep"
	}
	return &keyringSecretStore{service: service}
}

func (s *keyringSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	v, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		if errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return "", false, fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
		}
		return "", false, fmt.Errorf("keyring get: %w", err)
	}
	return v, true, nil
}

func (s *keyringSecretStore) Store(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(s.service, key, value); err != nil {
		if errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
		}
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (s *keyringSecretStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Delete(s.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		if errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
		}
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
