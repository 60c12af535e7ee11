// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"accessgate/cli/internal/config"
	"accessgate/cli/internal/keychain"
)

// HTTP implements API over the REST auth routes.
type HTTP struct {
	// cfg is read on every request so late SetActive calls take effect.
	cfg *config.Holder
	// store holds the cached bearer token under cfg.StorageKey.
	store keychain.Store
	// client is the underlying HTTP client; its timeout comes from cfg unless
	// a client was supplied with WithHTTPClient.
	client *http.Client
	// headers are caller-supplied defaults merged into every request.
	headers http.Header
	log     *slog.Logger
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithHeaders adds headers to every request. They override Content-Type but
// never the Authorization header derived from the cached token.
func WithHeaders(hdr http.Header) Option {
	return func(h *HTTP) {
		for k, vs := range hdr {
			for _, v := range vs {
				h.headers.Add(k, v)
			}
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *HTTP) {
		if l != nil {
			h.log = l
		}
	}
}

// newHTTP creates the HTTP transport.
func newHTTP(cfg *config.Holder, store keychain.Store, opts ...Option) *HTTP {
	h := &HTTP{
		cfg:     cfg,
		store:   store,
		headers: http.Header{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.client == nil {
		h.client = &http.Client{Timeout: cfg.Get().Timeout}
	}
	return h
}

// cachedToken returns the bearer token for a request: a token pinned on ctx
// wins, otherwise the store is consulted. Store failures read as "no token".
func (h *HTTP) cachedToken(ctx context.Context, key string) string {
	if tok, ok := tokenFromContext(ctx); ok {
		return tok
	}
	tok, _, err := keychain.Lookup(h.store, key)
	if err != nil {
		h.log.Warn("read cached token", "key", key, "error", err)
		return ""
	}
	return tok
}

// post issues a single POST to path and normalizes the outcome.
// payload may be nil for routes without a body.
func (h *HTTP) post(ctx context.Context, path string, payload any) Result[AuthResponse] {
	cfg := h.cfg.Get()
	token := h.cachedToken(ctx, cfg.StorageKey)
	reqID := uuid.NewString()
	log := h.log.With(slog.String("path", path), slog.String("request_id", reqID))

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return h.networkFailure(cfg, log, err)
		}
		body = bytes.NewReader(b)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return h.networkFailure(cfg, log, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	for k, vs := range h.headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	// Authorization is always applied last.
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("auth request", "url", url, "bearer", token != "")
	resp, err := h.client.Do(req)
	if err != nil {
		return h.networkFailure(cfg, log, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("read response body", "error", err)
		raw = nil
	}
	parsed := decodeBody(raw)
	log.Debug("auth response", "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := failureValue(parsed)
		cfg.OnAuthError(failure)
		return Fail[AuthResponse](failure)
	}

	// Non-object or empty bodies read as an empty response.
	var out AuthResponse
	if m, ok := parsed.(map[string]any); ok && len(m) > 0 {
		out = responseFromMap(m)
	}
	return Succeed(out)
}

func (h *HTTP) networkFailure(cfg config.Config, log *slog.Logger, err error) Result[AuthResponse] {
	log.Debug("auth request failed", "error", err)
	cfg.OnAuthError(err)
	return Fail[AuthResponse](newNetworkError(err))
}

// decodeBody parses a response body as JSON, falling back to an empty object.
func decodeBody(raw []byte) any {
	var v any
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return map[string]any{}
	}
	return v
}

// failureValue picks body.error when it is set to something truthy, else the
// whole body.
func failureValue(body any) any {
	if m, ok := body.(map[string]any); ok {
		if e, ok := m["error"]; ok && truthy(e) {
			return e
		}
	}
	return body
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
