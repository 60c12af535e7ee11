// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/config"
	apperrors "accessgate/cli/internal/errors"
	"accessgate/cli/internal/keychain"
	"accessgate/cli/internal/terminal"
)

type cliServer struct {
	*httptest.Server
	mu    sync.Mutex
	hits  map[string]int
	users []string
}

func newCLIServer(t *testing.T, token string) *cliServer {
	t.Helper()
	cs := &cliServer{hits: map[string]int{}}
	session := map[string]any{
		"success":     true,
		"accessToken": token,
		"user":        map[string]any{"username": "alice", "email": "alice@example.com"},
	}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			cs.mu.Lock()
			cs.hits[req.URL.Path]++
			cs.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})
	r.Post(backend.PathLogin, func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(session)
	})
	r.Post(backend.PathAccess, func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"missing token"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(session)
	})
	r.Post(backend.PathLogout, func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username string `json:"username"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		cs.mu.Lock()
		cs.users = append(cs.users, body.Username)
		cs.mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	cs.Server = httptest.NewServer(r)
	t.Cleanup(cs.Close)
	return cs
}

func (cs *cliServer) count(path string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits[path]
}

// cli runs commands against an isolated config dir and in-memory keychain.
type cli struct {
	t     *testing.T
	store keychain.Store
}

func newCLI(t *testing.T, baseURL string) *cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ACCESSGATE_BASE_URL", baseURL)
	t.Setenv("ACCESSGATE_LOG_FORMAT", "text")

	c := &cli{t: t, store: keychain.NewWithRing(keyring.NewArrayKeyring(nil))}
	prevStore, prevPrompt := openStore, prompter
	openStore = func() (keychain.Store, error) { return c.store, nil }
	t.Cleanup(func() { openStore, prompter = prevStore, prevPrompt })

	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	return c
}

func (c *cli) run(input string, args ...string) (string, error) {
	c.t.Helper()
	flagBaseURL, flagStorageKey, flagVerbose, flagJSON, flagHeaders = "", "", false, false, nil
	prompter = func() *terminal.Prompter {
		return &terminal.Prompter{In: strings.NewReader(input), Out: io.Discard}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) token() (string, bool) {
	tok, ok, err := keychain.Lookup(c.store, config.DefaultStorageKey)
	require.NoError(c.t, err)
	return tok, ok
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestLoginStatusLogout(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, "user-1", exp)
	srv := newCLIServer(t, tok)
	c := newCLI(t, srv.URL)

	out, err := c.run("pw1\n", "login", "alice", "--json")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["success"])
	got, ok := c.token()
	assert.True(t, ok)
	assert.Equal(t, tok, got)

	out, err = c.run("", "status", "--json")
	require.NoError(t, err)
	var st sessionStatus
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st.Authenticated)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, "user-1", st.Subject)
	require.NotNil(t, st.ExpiresAt)
	assert.True(t, exp.Equal(*st.ExpiresAt))
	assert.NotContains(t, st.Token, tok[10:len(tok)-10])
	assert.Equal(t, 1, srv.count(backend.PathAccess))

	_, err = c.run("", "logout", "--json")
	require.NoError(t, err)
	_, ok = c.token()
	assert.False(t, ok)
	assert.Equal(t, []string{"alice"}, srv.users)
}

func TestLogin_Rejected(t *testing.T) {
	r := chi.NewRouter()
	r.Post(backend.PathLogin, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid credentials"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	c := newCLI(t, srv.URL)

	_, err := c.run("wrong\n", "login", "alice")

	require.Error(t, err)
	kind, _ := apperrors.KindOf(err)
	assert.Equal(t, apperrors.ServerFailure, kind)
	assert.Contains(t, err.Error(), "invalid credentials")
	_, ok := c.token()
	assert.False(t, ok)
}

func TestLogin_EmptyPassword(t *testing.T) {
	srv := newCLIServer(t, "tok123")
	c := newCLI(t, srv.URL)

	_, err := c.run("\n", "login", "alice")

	assert.ErrorIs(t, err, terminal.ErrEmptyInput)
	assert.Zero(t, srv.count(backend.PathLogin))
}

func TestMissingBaseURL(t *testing.T) {
	c := newCLI(t, "")

	_, err := c.run("", "status")

	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.Usage, kind)
}

func TestConfigSetShow(t *testing.T) {
	c := newCLI(t, "")
	t.Setenv("ACCESSGATE_BASE_URL", "")

	_, err := c.run("", "config", "set", "base-url", "https://auth.example.com")
	require.NoError(t, err)
	_, err = c.run("", "config", "set", "timeout", "30")
	require.NoError(t, err)

	out, err := c.run("", "config", "show", "--json", "--storage-key", "k1")
	require.NoError(t, err)
	var eff effectiveConfig
	require.NoError(t, json.Unmarshal([]byte(out), &eff))
	assert.Equal(t, effectiveConfig{BaseURL: "https://auth.example.com", StorageKey: "k1", Timeout: "30s"}, eff)

	_, err = c.run("", "config", "set", "color", "blue")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	c := newCLI(t, "")
	out, err := c.run("", "version")
	require.NoError(t, err)
	assert.Equal(t, "accessgate "+Version+"\n", out)
}

func TestParseHeaders(t *testing.T) {
	h, err := parseHeaders([]string{"X-Tenant: acme", "X-Trace:  on ", "X-Tenant: beta"})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "beta"}, h.Values("X-Tenant"))
	assert.Equal(t, "on", h.Get("X-Trace"))

	for _, bad := range []string{"no-colon", ": value"} {
		_, err := parseHeaders([]string{bad})
		kind, _ := apperrors.KindOf(err)
		assert.Equal(t, apperrors.Usage, kind, bad)
	}
}

func TestTokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	sub, got, ok := tokenClaims(signedToken(t, "user-9", exp))
	require.True(t, ok)
	assert.Equal(t, "user-9", sub)
	assert.True(t, exp.Equal(*got))

	_, _, ok = tokenClaims("opaque-token")
	assert.False(t, ok)
}

func TestVerify_MessageFollowsSession(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "confirmation without a session",
			body: `{"success":true,"message":"verified"}`,
			want: "Run 'accessgate login' to start a session",
		},
		{
			name: "confirmation with a session",
			body: `{"success":true,"accessToken":"tok-v","user":{"username":"alice"}}`,
			want: "you are logged in as alice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post(backend.PathVerify, func(w http.ResponseWriter, req *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			srv := httptest.NewServer(r)
			defer srv.Close()
			c := newCLI(t, srv.URL)

			out, err := c.run("", "verify", "--email", "alice@example.com", "--otp", "123456")

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRunStatus_RequiresSessionScope(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	err := runStatus(cmd, nil, &scope{})

	assert.ErrorIs(t, err, auth.ErrNoSession)
	kind, _ := apperrors.KindOf(err)
	assert.Equal(t, apperrors.Usage, kind)
}
