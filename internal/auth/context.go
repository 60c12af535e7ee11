// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	apperrors "accessgate/cli/internal/errors"
)

// ErrNoSession is returned when a session handle is requested from a context
// that never had one attached.
var ErrNoSession = apperrors.New(apperrors.Usage, "session handle requested outside of an active session scope")

type sessionContextKey struct{}

// NewContext attaches s to ctx.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// FromContext returns the session attached to ctx, or ErrNoSession.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// MustFromContext is FromContext that panics with ErrNoSession.
func MustFromContext(ctx context.Context) *Session {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
