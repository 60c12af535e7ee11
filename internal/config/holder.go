// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config holds the client configuration for the auth session layer.
//
// The active configuration lives in a Holder that is created once per session
// scope and handed to the transport and the session coordinator. Settings are
// layered: defaults, the XDG config file, the environment and finally explicit
// overrides (CLI flags or library callers), each layer shallow-merged over the
// previous one with Holder.SetActive.
package config

import (
	"sync"
	"time"
)

// DefaultStorageKey is the keyring slot used for the access token when no
// storage key is configured.
const DefaultStorageKey = "e58ea3edfbbbc2"

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 10 * time.Second

// Config is the client configuration consumed by the transport and the
// session coordinator. Zero-valued fields are treated as "not set".
type Config struct {
	// BaseURL is where the auth routes live, e.g. https://api.example.com/auth.
	BaseURL string
	// StorageKey names the keyring slot holding the access token.
	StorageKey string
	// OnAuthError receives every server-reported and network failure.
	OnAuthError func(err any)
	// Timeout is applied to the HTTP client.
	Timeout time.Duration
}

// Define returns cfg unchanged. It exists so call sites can declare a
// configuration value in one expression without touching any Holder.
func Define(cfg Config) Config {
	return cfg
}

// Holder stores the active configuration for one session scope.
type Holder struct {
	mu     sync.RWMutex
	active Config
}

// NewHolder returns a Holder with the given configuration already applied.
func NewHolder(cfg Config) *Holder {
	h := &Holder{}
	h.SetActive(cfg)
	return h
}

// SetActive shallow-merges cfg into the active configuration. Fields left at
// their zero value keep the previously active value.
func (h *Holder) SetActive(cfg Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cfg.BaseURL != "" {
		h.active.BaseURL = cfg.BaseURL
	}
	if cfg.StorageKey != "" {
		h.active.StorageKey = cfg.StorageKey
	}
	if cfg.OnAuthError != nil {
		h.active.OnAuthError = cfg.OnAuthError
	}
	if cfg.Timeout > 0 {
		h.active.Timeout = cfg.Timeout
	}
}

// Get returns the active configuration with optional fields resolved to their
// defaults. BaseURL has no default and may be empty.
func (h *Holder) Get() Config {
	h.mu.RLock()
	c := h.active
	h.mu.RUnlock()

	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}
	if c.OnAuthError == nil {
		c.OnAuthError = func(any) {}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
