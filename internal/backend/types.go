// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"maps"
)

// User is the server-defined account record. Only Username (and Email, for
// display) is interpreted; Fields keeps the record exactly as received.
type User struct {
	Username string         `json:"username"`
	Email    string         `json:"email,omitempty"`
	Fields   map[string]any `json:"-"`
}

// UnmarshalJSON accepts any object. Fields of unexpected types are kept in
// Fields and never fail the decode.
func (u *User) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*u = userFromMap(m)
	return nil
}

// MarshalJSON emits the full server record when one was received.
func (u User) MarshalJSON() ([]byte, error) {
	if u.Fields == nil {
		type plain User
		return json.Marshal(plain(u))
	}
	m := maps.Clone(u.Fields)
	m["username"] = u.Username
	if u.Email != "" {
		m["email"] = u.Email
	}
	return json.Marshal(m)
}

func userFromMap(m map[string]any) User {
	u := User{Fields: m}
	u.Username, _ = m["username"].(string)
	u.Email, _ = m["email"].(string)
	return u
}

// AuthResponse is the body shape shared by every auth route. Fields are
// derived from the parsed body by presence and truthiness, so a body with
// extra keys or oddly typed values still reconciles on accessToken and user.
type AuthResponse struct {
	Success     bool   `json:"success"`
	User        *User  `json:"user,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	IsOtpSent   bool   `json:"isOtpSent,omitempty"`
	Message     string `json:"message,omitempty"`
	// Error is a string or an object such as {title, message}.
	Error any `json:"error,omitempty"`
	// Body is the parsed response object, unknown keys included.
	Body map[string]any `json:"-"`
}

// UnmarshalJSON decodes any JSON object without failing on field types.
// Non-object bodies decode to the zero value.
func (r *AuthResponse) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	m, ok := v.(map[string]any)
	if !ok {
		*r = AuthResponse{}
		return nil
	}
	*r = responseFromMap(m)
	return nil
}

// MarshalJSON emits the received body when there is one.
func (r AuthResponse) MarshalJSON() ([]byte, error) {
	if r.Body != nil {
		return json.Marshal(r.Body)
	}
	type plain AuthResponse
	return json.Marshal(plain(r))
}

func responseFromMap(m map[string]any) AuthResponse {
	r := AuthResponse{
		Success:   truthy(m["success"]),
		IsOtpSent: truthy(m["isOtpSent"]),
		Error:     m["error"],
		Body:      m,
	}
	r.AccessToken, _ = m["accessToken"].(string)
	r.Message, _ = m["message"].(string)
	switch u := m["user"].(type) {
	case map[string]any:
		user := userFromMap(u)
		r.User = &user
	default:
		// Any other truthy value still counts as a user being present.
		if truthy(u) {
			r.User = &User{}
			r.User.Username, _ = u.(string)
		}
	}
	return r
}

// IssuesSession reports whether the response carries both a token and a user.
func (r AuthResponse) IssuesSession() bool {
	return r.AccessToken != "" && r.User != nil
}

// SignupRequest carries the partial user fields sent to /signup.
type SignupRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Username string `json:"username"`
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}
