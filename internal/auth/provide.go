// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/config"
	"accessgate/cli/internal/keychain"
)

// Provide opens a session scope: cfg is merged into holder, the HTTP
// transport is wired to holder and store (unless WithAPI supplied one), and
// mount-time initialization runs before the Session is returned.
func Provide(ctx context.Context, holder *config.Holder, cfg config.Config, store keychain.Store, opts ...Option) *Session {
	holder.SetActive(cfg)
	s := newSession(holder, store, opts...)
	if s.be == nil {
		topts := append([]backend.Option{backend.WithLogger(s.log)}, s.transportOpts...)
		s.be = backend.New(holder, store, topts...)
	}
	s.Init(ctx)
	return s
}
