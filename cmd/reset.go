// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
	apperrors "accessgate/cli/internal/errors"
	"accessgate/cli/internal/terminal"
)

var (
	resetEmail string
	resetOTP   string
)

// resetCmd sets a new password using an emailed one-time code. Without --otp
// it first asks the server to send the code, then prompts for it.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset your password with a one-time code",
	RunE: withSession("resetting the password", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if resetEmail == "" {
			if resetEmail, err = terminal.Required(sc.prompt.ReadLine, "Email: "); err != nil {
				return err
			}
		}

		if resetOTP == "" {
			res := sess.ResetPassword(cmd.Context(), resetEmail, "", "")
			if !res.Success {
				return report(cmd, res, "")
			}
			pterm.Info.Printfln("A one-time code was sent to %s", resetEmail)
			if resetOTP, err = terminal.Required(sc.prompt.ReadLine, "Code: "); err != nil {
				return err
			}
		}

		password, err := terminal.Required(sc.prompt.ReadSecret, "New password: ")
		if err != nil {
			return err
		}
		confirm, err := sc.prompt.ReadSecret("Repeat new password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return apperrors.Wrap(apperrors.Usage, "reset", errors.New("passwords do not match"))
		}

		res := sess.ResetPassword(cmd.Context(), resetEmail, resetOTP, password)
		return report(cmd, res, "Password updated")
	}),
}

func init() {
	resetCmd.Flags().StringVar(&resetEmail, "email", "", "Account email")
	resetCmd.Flags().StringVar(&resetOTP, "otp", "", "One-time code; omit to request one")
	rootCmd.AddCommand(resetCmd)
}
