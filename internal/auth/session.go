// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth is the session state coordinator. A Session owns the current
// user, the authenticated and loading flags, and the cached access token in
// the keychain, and reconciles them with every transport result:
//
//   - Login and RefreshSession commit a session only when the server returns
//     both a token and a user, and otherwise fail closed: token removed, user
//     cleared, not authenticated.
//   - Signup stores the token and user but never marks the session
//     authenticated; verification has to follow.
//   - Verify never touches state when the server reports an OTP was sent,
//     commits like Login on a token and user, and leaves state alone otherwise.
//   - ResetPassword marks the session authenticated and clears the user on
//     success.
//   - Logout clears everything locally and notifies the server in the
//     background.
//
// Every operation also returns the transport result unchanged.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/config"
	apperrors "accessgate/cli/internal/errors"
	"accessgate/cli/internal/keychain"
)

// Session coordinates session state for one session scope. It is safe for
// concurrent use, but concurrent operations are not ordered: a response that
// arrives late may overwrite the state written by a newer call.
type Session struct {
	be    backend.API
	cfg   *config.Holder
	store keychain.Store
	log   *slog.Logger

	transportOpts []backend.Option

	mu        sync.RWMutex
	state     State
	version   uint64
	observers []observer
	nextObs   int

	initOnce sync.Once
	bg       sync.WaitGroup
}

type observer struct {
	id int
	fn func(State)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAPI makes Provide use api instead of building the HTTP transport.
func WithAPI(api backend.API) Option {
	return func(s *Session) { s.be = api }
}

// WithTransportOptions passes options to the HTTP transport built by Provide.
func WithTransportOptions(opts ...backend.Option) Option {
	return func(s *Session) { s.transportOpts = append(s.transportOpts, opts...) }
}

// NewSession creates a coordinator over api. The session starts loading;
// call Init to run mount-time token renewal.
func NewSession(api backend.API, cfg *config.Holder, store keychain.Store, opts ...Option) *Session {
	s := newSession(cfg, store, append([]Option{WithAPI(api)}, opts...)...)
	if s.be == nil {
		panic("auth: NewSession requires a non-nil backend.API")
	}
	return s
}

func newSession(cfg *config.Holder, store keychain.Store, opts ...Option) *Session {
	s := &Session{
		cfg:   cfg,
		store: store,
		log:   slog.Default(),
		state: State{IsLoading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.User = cloneUser(st.User)
	return st
}

// User returns the current user or nil.
func (s *Session) User() *backend.User { return s.State().User }

// IsAuthenticated reports whether the session currently trusts its token.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// IsLoading reports whether mount-time initialization is still running.
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

// Version increases by one on every state transition.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to receive a snapshot after every state transition.
// Callbacks run synchronously on the goroutine that caused the transition.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Init performs mount-time renewal once per Session. Without a cached token
// it only clears the loading flag; otherwise it makes exactly one /access call
// reconciled like RefreshSession. called reports whether a request was made.
func (s *Session) Init(ctx context.Context) (res backend.Result[backend.AuthResponse], called bool) {
	s.initOnce.Do(func() {
		key := s.cfg.Get().StorageKey
		_, ok, err := keychain.Lookup(s.store, key)
		if err != nil {
			s.log.Warn("read cached token", "error", apperrors.Wrap(apperrors.StorageFailure, "lookup "+key, err))
		}
		if ok {
			res = s.RefreshSession(ctx)
			called = true
		}
		s.update(func(st *State) { st.IsLoading = false })
	})
	return res, called
}

// Signup registers a new account. A returned token and user are stored, but
// the session stays unauthenticated until verification completes.
func (s *Session) Signup(ctx context.Context, req backend.SignupRequest) backend.Result[backend.AuthResponse] {
	res := s.be.Signup(ctx, req)
	if res.Success && res.Data.IssuesSession() {
		s.persist(res.Data.AccessToken)
		user := cloneUser(res.Data.User)
		s.update(func(st *State) {
			st.User = user
			st.IsAuthenticated = false
		})
	}
	return res
}

// Verify submits an OTP, or requests one when otp is empty. Responses that
// report an OTP was sent never change state; failures leave state untouched.
func (s *Session) Verify(ctx context.Context, identifier, otp string) backend.Result[backend.AuthResponse] {
	res := s.be.Verify(ctx, identifier, otp)
	if res.Success && !res.Data.IsOtpSent && res.Data.IssuesSession() {
		s.commit(res.Data)
	}
	return res
}

// Login authenticates with an identifier (email or username) and password.
func (s *Session) Login(ctx context.Context, identifier, password string) backend.Result[backend.AuthResponse] {
	res := s.be.Login(ctx, identifier, password)
	s.commitOrReset(res)
	return res
}

// RefreshSession renews the session from the cached token via /access.
func (s *Session) RefreshSession(ctx context.Context) backend.Result[backend.AuthResponse] {
	res := s.be.Access(ctx)
	s.commitOrReset(res)
	return res
}

// ResetPassword sets a new password using an OTP. On success the session is
// trusted but the user is cleared, since the reset response carries no user.
func (s *Session) ResetPassword(ctx context.Context, identifier, otp, newPassword string) backend.Result[backend.AuthResponse] {
	res := s.be.Reset(ctx, identifier, otp, newPassword)
	if res.Success {
		s.update(func(st *State) {
			st.IsAuthenticated = true
			st.User = nil
		})
	}
	return res
}

// Logout clears the session locally. When a username is known the server is
// told in the background with the token cached at call time; local clearing
// never depends on that call. Use Wait to let it finish.
func (s *Session) Logout(ctx context.Context) {
	if username := s.State().Username(); username != "" {
		tok, _, err := keychain.Lookup(s.store, s.cfg.Get().StorageKey)
		if err != nil {
			s.log.Warn("read cached token for logout", "error", err)
		}
		bctx := backend.ContextWithToken(context.WithoutCancel(ctx), tok)
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if res := s.be.Logout(bctx, username); !res.Success {
				s.log.Debug("remote logout failed", "username", username, "error", backend.ErrorMessage(res.Error))
			}
		}()
	}
	s.reset()
}

// Wait blocks until background calls started by Logout have finished.
func (s *Session) Wait() {
	s.bg.Wait()
}

// commitOrReset trusts a response carrying a token and user and fails closed
// on anything else.
func (s *Session) commitOrReset(res backend.Result[backend.AuthResponse]) {
	if res.Success && res.Data.IssuesSession() {
		s.commit(res.Data)
		return
	}
	s.reset()
}

func (s *Session) commit(data backend.AuthResponse) {
	s.persist(data.AccessToken)
	user := cloneUser(data.User)
	s.update(func(st *State) {
		st.User = user
		st.IsAuthenticated = true
	})
}

func (s *Session) reset() {
	s.forget()
	s.update(func(st *State) {
		st.User = nil
		st.IsAuthenticated = false
	})
}

func (s *Session) persist(token string) {
	key := s.cfg.Get().StorageKey
	if err := s.store.Set(key, token); err != nil {
		s.log.Warn("persist access token", "error", apperrors.Wrap(apperrors.StorageFailure, "store "+key, err))
	}
}

func (s *Session) forget() {
	key := s.cfg.Get().StorageKey
	if err := s.store.Remove(key); err != nil {
		s.log.Warn("remove access token", "error", apperrors.Wrap(apperrors.StorageFailure, "remove "+key, err))
	}
}

// update applies mutate under the lock and notifies observers outside it.
func (s *Session) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.version++
	snap := s.state
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, o := range obs {
		st := snap
		st.User = cloneUser(snap.User)
		o.fn(st)
	}
}
