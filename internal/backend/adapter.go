// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the session transport: one method per auth route, each
// issuing exactly one JSON request and normalizing the answer into a Result.
//
// Failures are never returned as Go errors. Server rejections and network
// failures both come back as a failed Result and are also reported to the
// configured OnAuthError callback.
package backend

import "context"

// API defines the auth routes the session coordinator depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Signup posts partial user fields to /signup.
	Signup(ctx context.Context, req SignupRequest) Result[AuthResponse]
	// Verify posts {email, otp} to /verify. An empty otp asks the server to
	// (re-)send one.
	Verify(ctx context.Context, identifier, otp string) Result[AuthResponse]
	// Login posts {id, password} to /login.
	Login(ctx context.Context, identifier, password string) Result[AuthResponse]
	// Access posts to /access with no body, relying on the stored token.
	Access(ctx context.Context) Result[AuthResponse]
	// Logout posts {username} to /logout.
	Logout(ctx context.Context, username string) Result[AuthResponse]
	// Reset posts {email, otp, newPassword} to /reset.
	Reset(ctx context.Context, identifier, otp, newPassword string) Result[AuthResponse]
}

// Route paths relative to the configured base URL.
const (
	PathSignup = "/signup"
	PathVerify = "/verify"
	PathLogin  = "/login"
	PathAccess = "/access"
	PathLogout = "/logout"
	PathReset  = "/reset"
)
