// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for Accessgate. Each auth
// command opens a session scope against the configured auth server, runs one
// operation through the session coordinator and reports the result either as
// terminal output or as JSON.
package cmd

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/logging"
)

var (
	flagBaseURL    string
	flagStorageKey string
	flagVerbose    bool
	flagJSON       bool
	flagHeaders    []string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "accessgate",
	Short: "Accessgate CLI for signing up, logging in and managing your session",
	Long: `Accessgate talks to an auth server over REST/JSON. It keeps your access token
in the OS keychain, renews it when a command starts, and clears it whenever the
server stops accepting it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(logging.PresentError("accessgate", err))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "Auth server base URL (overrides ACCESSGATE_BASE_URL and config)")
	pf.StringVar(&flagStorageKey, "storage-key", "", "Keychain key holding the access token")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.BoolVar(&flagJSON, "json", false, "Print the raw result as JSON")
	pf.StringArrayVarP(&flagHeaders, "header", "H", nil, `Extra request header, "Name: value" (repeatable)`)
}
