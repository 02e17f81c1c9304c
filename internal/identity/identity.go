// SPDX-License-Identifier: Apache-2.0

// Package identity supplies the stable local identity string that seeds key
// derivation. The identity is a random UUID generated once per installation
// and persisted next to the rest of modelkeep's state; it is never
// transmitted and never logged.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreate returns the installation identity stored at path, creating
// and persisting a fresh one on first use. The file is written with mode
// 0600 before the identity is returned, so a given installation only ever
// observes one identity.
func LoadOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id == "" {
			return "", fmt.Errorf("identity file %s is empty", path)
		}
		return id, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read identity file: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write identity file: %w", err)
	}
	return id, nil
}
