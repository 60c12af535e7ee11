// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/backend"
	"accessgate/cli/internal/terminal"
)

var (
	signupEmail    string
	signupUsername string
	signupRole     string
)

// signupCmd registers a new account. The server may return a token straight
// away, but the session only becomes trusted after 'accessgate verify'.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `The signup command registers a new account with the auth server. The password is
read from the terminal without echo. Once the account exists, the server emails a
one-time code; finish with 'accessgate verify --email <email> --otp <code>'.`,
	RunE: withSession("signing up", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if signupEmail == "" {
			if signupEmail, err = terminal.Required(sc.prompt.ReadLine, "Email: "); err != nil {
				return err
			}
		}
		if signupUsername == "" {
			if signupUsername, err = terminal.Required(sc.prompt.ReadLine, "Username: "); err != nil {
				return err
			}
		}
		password, err := terminal.Required(sc.prompt.ReadSecret, "Password: ")
		if err != nil {
			return err
		}

		res := sess.Signup(cmd.Context(), backend.SignupRequest{
			Email:    signupEmail,
			Username: signupUsername,
			Password: password,
			Role:     signupRole,
		})
		return report(cmd, res, fmt.Sprintf("Account created for %s. Check your inbox, then run 'accessgate verify --email %s'", signupUsername, signupEmail))
	}),
}

func init() {
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Username")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "Requested role, if the server supports roles")
	rootCmd.AddCommand(signupCmd)
}
