// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/terminal"
)

// loginCmd authenticates with an identifier and password and caches the
// issued access token in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login [email-or-username]",
	Aliases: []string{"auth"},
	Short:   "Log in with your email or username",
	Long: `The login command authenticates against the auth server. The identifier may be an
email address or a username; the password is always read from the terminal without
echo. On success the access token is stored in the OS keychain. On any failure a
previously cached token is removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession("logging in", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		var id string
		if len(args) == 1 {
			id = args[0]
		} else if id, err = terminal.Required(sc.prompt.ReadLine, "Email or username: "); err != nil {
			return err
		}
		password, err := terminal.Required(sc.prompt.ReadSecret, "Password: ")
		if err != nil {
			return err
		}

		res := sess.Login(cmd.Context(), id, password)
		if flagJSON || !res.Success {
			return report(cmd, res, "")
		}
		name := sess.State().Username()
		if name == "" {
			name = id
		}
		fmt.Fprintln(cmd.OutOrStdout(), loginGreeting(name))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
