// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/config"
	"accessgate/cli/internal/keychain"
	"accessgate/cli/internal/logging"
)

// authServer answers each route with a fixed status and body and records the
// bearer token it saw per route.
type authServer struct {
	*httptest.Server
	mu      sync.Mutex
	bearers map[string][]string
}

type reply struct {
	status int
	body   string
}

func newAuthServer(t *testing.T, routes map[string]reply) *authServer {
	t.Helper()
	as := &authServer{bearers: map[string][]string{}}
	r := chi.NewRouter()
	for path, rep := range routes {
		r.Post(path, func(w http.ResponseWriter, req *http.Request) {
			as.mu.Lock()
			as.bearers[path] = append(as.bearers[path], strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer "))
			as.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rep.status)
			_, _ = w.Write([]byte(rep.body))
		})
	}
	as.Server = httptest.NewServer(r)
	t.Cleanup(as.Close)
	return as
}

func (as *authServer) seen(path string) []string {
	as.mu.Lock()
	defer as.mu.Unlock()
	return append([]string(nil), as.bearers[path]...)
}

func newStore() *keychain.Manager {
	return keychain.NewWithRing(keyring.NewArrayKeyring(nil))
}

func TestProvide_LoginThenLogout(t *testing.T) {
	srv := newAuthServer(t, map[string]reply{
		backend.PathLogin:  {200, `{"success":true,"accessToken":"tok123","user":{"username":"alice","email":"alice@example.com"}}`},
		backend.PathLogout: {200, `{"success":true}`},
	})
	store := newStore()
	holder := config.NewHolder(config.Config{})

	s := Provide(context.Background(), holder, config.Config{BaseURL: srv.URL}, store, WithLogger(logging.Discard()))
	require.False(t, s.IsLoading())

	res := s.Login(context.Background(), "alice", "pw1")
	require.True(t, res.Success)
	tok, err := store.Get(config.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "alice", s.State().Username())

	s.Logout(context.Background())
	_, err = store.Get(config.DefaultStorageKey)
	assert.ErrorIs(t, err, keychain.ErrNotFound)

	s.Wait()
	// The remote call carries the token cached before local clearing.
	assert.Equal(t, []string{"tok123"}, srv.seen(backend.PathLogout))
}

func TestProvide_InitRenewsCachedToken(t *testing.T) {
	srv := newAuthServer(t, map[string]reply{
		backend.PathAccess: {200, `{"success":true,"accessToken":"fresh","user":{"username":"alice"}}`},
	})
	store := newStore()
	require.NoError(t, store.Set("custom-key", "stale"))

	s := Provide(context.Background(), config.NewHolder(config.Config{}),
		config.Config{BaseURL: srv.URL, StorageKey: "custom-key"}, store, WithLogger(logging.Discard()))

	assert.Equal(t, []string{"stale"}, srv.seen(backend.PathAccess))
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
	tok, err := store.Get("custom-key")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)
}

func TestProvide_InvalidCredentials(t *testing.T) {
	srv := newAuthServer(t, map[string]reply{
		backend.PathLogin: {401, `{"error":"invalid credentials"}`},
	})
	store := newStore()
	require.NoError(t, store.Set(config.DefaultStorageKey, "old"))

	var reported []any
	cfg := config.Config{
		BaseURL:     srv.URL,
		OnAuthError: func(v any) { reported = append(reported, v) },
	}
	// Skip the mount-time renewal so only the login request is observed.
	holder := config.NewHolder(cfg)
	s := NewSession(backend.New(holder, store), holder, store, WithLogger(logging.Discard()))

	res := s.Login(context.Background(), "alice", "wrong")

	assert.False(t, res.Success)
	assert.Equal(t, "invalid credentials", res.Error)
	assert.Equal(t, []any{"invalid credentials"}, reported)
	_, err := store.Get(config.DefaultStorageKey)
	assert.ErrorIs(t, err, keychain.ErrNotFound)
	assert.False(t, s.IsAuthenticated())
}

func TestProvide_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var reported []any
	cfg := config.Config{
		BaseURL:     url,
		OnAuthError: func(v any) { reported = append(reported, v) },
	}
	s := Provide(context.Background(), config.NewHolder(config.Config{}), cfg, newStore(), WithLogger(logging.Discard()))

	res := s.Login(context.Background(), "alice", "pw1")

	assert.False(t, res.Success)
	ne, ok := res.Error.(backend.NetworkError)
	require.True(t, ok, "expected a NetworkError, got %T", res.Error)
	assert.Equal(t, "Network error", ne.Message)
	require.Len(t, reported, 1)
	assert.Implements(t, (*error)(nil), reported[0])
	assert.False(t, s.IsAuthenticated())
}

func TestProvide_UsesSuppliedAPI(t *testing.T) {
	api := newFakeAPI()
	s := Provide(context.Background(), config.NewHolder(config.Config{}), config.Config{}, newStore(),
		WithAPI(api), WithLogger(logging.Discard()))

	assert.False(t, s.IsLoading())
	assert.Zero(t, api.callCount())
}
