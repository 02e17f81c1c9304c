// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileSecretStore is a SecretStore backed by a single JSON file on disk.
//
// The whole state is held in memory behind a RWMutex and rewritten to disk
// on every mutation. Writes go through a temp file in the same directory
// followed by a rename, so a crash mid-write never leaves a truncated
// store behind. The file is created with mode 0600: its values are either
// ciphertext or non-secret metadata, but there is no reason to share them.
type fileSecretStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

type filePersistedState struct {
	Values map[string]string `json:"values"`
}

// NewFileStore opens (or lazily creates) a file-backed SecretStore at path.
func NewFileStore(path string) (SecretStore, error) {
	s := &fileSecretStore{
		path:   path,
		values: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileSecretStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrReadingStoreFile, err)
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingStoreFile, err)
	}
	if st.Values != nil {
		s.values = st.Values
	}
	return nil
}

// persist writes the current state to disk. Caller must hold s.mu.
func (s *fileSecretStore) persist() error {
	data, err := json.MarshalIndent(filePersistedState{Values: s.values}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".modelkeep-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}

	if err = os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWritingStoreFile, err)
	}
	return nil
}

func (s *fileSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fileSecretStore) Store(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.persist(); err != nil {
		// Roll back the in-memory change so memory and disk stay in sync.
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *fileSecretStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.persist(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}
