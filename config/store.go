// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: JSON persistence for keybinding overrides.
// Usage: Load at startup, Save after every confirmed rebind and at exit.
// Notes: A corrupt file is backed up and regenerated rather than failing
// startup; save errors are surfaced for the caller to report as warnings.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// BindingStore persists keybinding overrides as a flat JSON object of
// action ID to textual keybind. An empty string means explicitly unbound.
type BindingStore struct {
	path string
}

// NewBindingStore creates a store backed by the given file.
func NewBindingStore(path string) *BindingStore {
	return &BindingStore{path: path}
}

// OpenDefaultBindingStore creates a store at the standard per-user path.
func OpenDefaultBindingStore() (*BindingStore, error) {
	path, err := BindingsPath()
	if err != nil {
		return nil, err
	}
	return NewBindingStore(path), nil
}

// Path returns the backing file location.
func (s *BindingStore) Path() string { return s.path }

// Load reads persisted overrides. A missing file yields an empty map; a
// corrupt file is moved aside to <name>.bad and likewise yields an empty
// map, so startup always proceeds on defaults.
func (s *BindingStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return map[string]string{}, fmt.Errorf("read keybindings: %w", err)
	}

	var bindings map[string]string
	if err := json.Unmarshal(data, &bindings); err != nil {
		backup := s.path + ".bad"
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			log.Printf("Config: could not back up corrupt keybindings: %v", renameErr)
		} else {
			log.Printf("Config: corrupt keybindings backed up to %s", backup)
		}
		return map[string]string{}, fmt.Errorf("parse keybindings: %w", err)
	}
	if bindings == nil {
		bindings = map[string]string{}
	}
	return bindings, nil
}

// Save writes the overrides atomically (temp file plus rename).
func (s *BindingStore) Save(bindings map[string]string) error {
	if bindings == nil {
		bindings = map[string]string{}
	}
	data, err := json.MarshalIndent(bindings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode keybindings: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".keybindings-*.json")
	if err != nil {
		return fmt.Errorf("write keybindings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write keybindings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write keybindings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write keybindings: %w", err)
	}
	return nil
}
