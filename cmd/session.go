// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/config"
	apperrors "accessgate/cli/internal/errors"
	"accessgate/cli/internal/httperrors"
	"accessgate/cli/internal/keychain"
	"accessgate/cli/internal/logging"
	"accessgate/cli/internal/terminal"
)

// openStore opens the durable token slot. Tests swap in an in-memory ring.
var openStore = func() (keychain.Store, error) {
	return keychain.NewManager(keychain.Options{})
}

// prompter answers interactive questions. Tests swap in scripted input.
var prompter = terminal.Stdio

// scope is what a command needs besides the session itself, which travels
// on the command context (see auth.FromContext).
type scope struct {
	holder *config.Holder
	store  keychain.Store
	log    *slog.Logger
	prompt *terminal.Prompter
}

func (sc *scope) token() (string, bool) {
	tok, ok, err := keychain.Lookup(sc.store, sc.holder.Get().StorageKey)
	if err != nil {
		sc.log.Warn("read cached token", "error", err)
	}
	return tok, ok
}

// withSession opens a session scope around run. action describes the
// command in network error messages, e.g. "logging in". Background work the
// session started is awaited before the command returns.
func withSession(action string, run func(cmd *cobra.Command, args []string, sc *scope) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, sc, err := openScope(cmd, action)
		if err != nil {
			return err
		}
		defer sess.Wait()
		cmd.SetContext(auth.NewContext(cmd.Context(), sess))
		return run(cmd, args, sc)
	}
}

// loadLayers merges the config file and the environment into a Holder and
// builds the process logger from the same layers.
func loadLayers() (*config.Holder, *slog.Logger, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Usage, "load settings", err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Usage, "parse environment", err)
	}

	log := logging.New(logging.Options{
		Verbose: flagVerbose || env.Verbose,
		Format:  env.LogFormat,
		Level:   settings.LogLevel,
	})
	slog.SetDefault(log)

	holder := config.NewHolder(settings.Config())
	holder.SetActive(env.Config())
	return holder, log, nil
}

func openScope(cmd *cobra.Command, action string) (*auth.Session, *scope, error) {
	holder, log, err := loadLayers()
	if err != nil {
		return nil, nil, err
	}

	baseURL := flagBaseURL
	if baseURL == "" {
		baseURL = holder.Get().BaseURL
	}
	if baseURL == "" {
		return nil, nil, apperrors.New(apperrors.Usage,
			"no auth server configured; pass --base-url, set ACCESSGATE_BASE_URL or run 'accessgate config set base-url <url>'")
	}

	headers, err := parseHeaders(flagHeaders)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.StorageFailure, "open keychain", err)
	}

	flags := config.Config{
		BaseURL:     flagBaseURL,
		StorageKey:  flagStorageKey,
		OnAuthError: httperrors.Handler(action, httperrors.ExtractHostFromURL(baseURL), log),
	}

	stop := func() {}
	if !flagJSON && term.IsTerminal(int(os.Stderr.Fd())) {
		stop = startInlineSpinner(os.Stderr, "Restoring session", spinnerFrames, 120*time.Millisecond)
	}
	sess := auth.Provide(cmd.Context(), holder, flags, store,
		auth.WithLogger(log),
		auth.WithTransportOptions(backend.WithHeaders(headers)),
	)
	stop()

	log.Debug("session ready", "authenticated", sess.IsAuthenticated(), "user", sess.State().Username())
	return sess, &scope{holder: holder, store: store, log: log, prompt: prompter()}, nil
}

// parseHeaders turns repeated "Name: value" flags into request headers.
func parseHeaders(raw []string) (http.Header, error) {
	h := http.Header{}
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, apperrors.New(apperrors.Usage, fmt.Sprintf("invalid header %q, want \"Name: value\"", kv))
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}
