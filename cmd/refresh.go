// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Renew the cached access token",
	Long: `The refresh command exchanges the cached access token for a fresh one. If the
server rejects it, the cached token is removed and you need to log in again.`,
	RunE: withSession("renewing the session", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if _, ok := sc.token(); !ok && !flagJSON {
			printLoggedOut()
			return nil
		}
		return report(cmd, sess.RefreshSession(cmd.Context()), "Session renewed")
	}),
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
