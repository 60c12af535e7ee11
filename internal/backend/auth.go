// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "context"

// Signup calls POST /signup with the partial user fields.
func (h *HTTP) Signup(ctx context.Context, req SignupRequest) Result[AuthResponse] {
	return h.post(ctx, PathSignup, req)
}

// Verify calls POST /verify with {email, otp}. The identifier may be an email
// or a username; the server decides.
func (h *HTTP) Verify(ctx context.Context, identifier, otp string) Result[AuthResponse] {
	return h.post(ctx, PathVerify, verifyRequest{Email: identifier, OTP: otp})
}

// Login calls POST /login with {id, password}.
func (h *HTTP) Login(ctx context.Context, identifier, password string) Result[AuthResponse] {
	return h.post(ctx, PathLogin, loginRequest{ID: identifier, Password: password})
}

// Access calls POST /access with no body. The cached bearer token is the
// only credential.
func (h *HTTP) Access(ctx context.Context) Result[AuthResponse] {
	return h.post(ctx, PathAccess, nil)
}

// Logout calls POST /logout with {username}.
func (h *HTTP) Logout(ctx context.Context, username string) Result[AuthResponse] {
	return h.post(ctx, PathLogout, logoutRequest{Username: username})
}

// Reset calls POST /reset with {email, otp, newPassword}.
func (h *HTTP) Reset(ctx context.Context, identifier, otp, newPassword string) Result[AuthResponse] {
	return h.post(ctx, PathReset, resetRequest{Email: identifier, OTP: otp, NewPassword: newPassword})
}
