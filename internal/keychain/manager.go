// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe OS keychain operations for snowflip.
// It stores the encrypted credential bundle (ciphertext plus its key) so that
// `snowflip encrypt-creds --save` survives across invocations without a plaintext
// file on disk. Only the CLI uses this package; the library core never persists
// anything.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "snowflip"

// Keys used for storing secrets in the OS keychain.
const (
	KeyCiphertext = "creds_ciphertext"
	KeyCredsKey   = "creds_key"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// No file fallback: a secret either lands in a real credential store or nowhere.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

// SaveBundle stores an encrypted credential bundle in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveBundle(ciphertext, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Set(keyring.Item{Key: KeyCiphertext, Data: []byte(ciphertext)}); err != nil {
		return err
	}
	return m.ring.Set(keyring.Item{Key: KeyCredsKey, Data: []byte(key)})
}

// LoadBundle retrieves the stored bundle. Missing entries return keyring.ErrKeyNotFound.
func (m *Manager) LoadBundle() (ciphertext, key string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ct, err := m.ring.Get(KeyCiphertext)
	if err != nil {
		return "", "", err
	}
	k, err := m.ring.Get(KeyCredsKey)
	if err != nil {
		return "", "", err
	}
	return string(ct.Data), string(k.Data), nil
}

// ClearBundle removes the stored bundle from the keychain.
func (m *Manager) ClearBundle() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(KeyCiphertext); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	if err := m.ring.Remove(KeyCredsKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
