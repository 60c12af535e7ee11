// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"maps"

	"accessgate/cli/internal/backend"
)

// State is a snapshot of the session as the coordinator currently sees it.
type State struct {
	// User is nil when no identity is known.
	User *backend.User
	// IsAuthenticated is true while a stored or freshly issued token is
	// trusted. It says nothing about server-side validity.
	IsAuthenticated bool
	// IsLoading is true only until mount-time initialization completes.
	IsLoading bool
}

// Username returns the current username, or "" when no user is set.
func (s State) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

func cloneUser(u *backend.User) *backend.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Fields = maps.Clone(u.Fields)
	return &c
}
