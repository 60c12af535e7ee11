// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"accessgate/cli/internal/config"
	"accessgate/cli/internal/keychain"
)

// New creates the HTTP-backed API reading its settings from cfg and the
// bearer token from store.
func New(cfg *config.Holder, store keychain.Store, opts ...Option) API {
	return newHTTP(cfg, store, opts...)
}
