// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
)

// logoutCmd clears the cached token and notifies the server when a user is
// known. Local clearing never depends on the server answering.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the cached access token",
	Long: `The logout command removes the access token from the OS keychain. When the
session still knows who you are, the server is told as well (best-effort); the
command waits for that request before exiting but ignores its outcome.`,
	RunE: withSession("logging out", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		sess.Logout(cmd.Context())
		if flagJSON {
			return printJSON(cmd, statusOf(sess, sc))
		}
		pterm.Success.Println("Logged out, the cached token has been removed")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
