// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain is the durable key-value slot that holds the cached access
// token. It wraps the OS keychain/credential store through
// github.com/99designs/keyring, with a native `security` backend on macOS and
// an encrypted file fallback where no native store is reachable.
//
// All Manager methods are safe for concurrent use.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"accessgate/cli/internal/xdg"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "accessgate"

// ErrNotFound is returned by Get when the slot is empty.
var ErrNotFound = errors.New("keychain: key not found")

// Store is a single-namespace string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend is implemented by the native macOS `security` backend.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Options tune how the OS keyring is opened.
type Options struct {
	// ServiceName overrides the keychain namespace.
	ServiceName string
	// FileDir is where the encrypted file backend stores items.
	// Defaults to the XDG state directory.
	FileDir string
	// FilePassword unlocks the file backend without prompting.
	// Falls back to ACCESSGATE_KEYRING_PASSWORD, then to a terminal prompt.
	FilePassword string
}

// NewManager creates a keychain manager backed by the OS keyring.
func NewManager(opts Options) (*Manager, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = ServiceName
	}

	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(opts.ServiceName)
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing(opts)
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring
// in tests or for an ephemeral in-memory session.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring, preferring native backends and falling back
// to the encrypted file store.
func openRing(opts Options) (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend, keyring.FileBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}
	default:
		allowed = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	dir := opts.FileDir
	if dir == "" {
		d, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	password := opts.FilePassword
	if password == "" {
		password = os.Getenv("ACCESSGATE_KEYRING_PASSWORD")
	}
	prompt := keyring.TerminalPrompt
	if password != "" {
		prompt = keyring.FixedStringPrompt(password)
	}

	cfg := keyring.Config{
		ServiceName:      opts.ServiceName,
		AllowedBackends:  allowed,
		PassPrefix:       opts.ServiceName,
		FileDir:          dir,
		FilePasswordFunc: prompt,
	}
	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = opts.ServiceName
	}

	return keyring.Open(cfg)
}

// Get returns the value stored under key, or ErrNotFound.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", ErrNotFound
		}
		return v, nil
	}

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// Set stores value under key, replacing any previous value.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: ServiceName + " access token",
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(key)
	}
	err := m.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Lookup reads key and folds ErrNotFound into ok=false.
func Lookup(s Store, key string) (value string, ok bool, err error) {
	v, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
