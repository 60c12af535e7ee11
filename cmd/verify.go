// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/terminal"
)

var (
	verifyEmail string
	verifyOTP   string
)

// verifyCmd submits an email OTP, or asks the server to send one when no code
// is given.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify your email with a one-time code",
	Long: `Without --otp the command asks the server to (re)send a one-time code to the
given email address. With --otp it submits the code; you are logged in when the server issues a
session along with the confirmation.`,
	RunE: withSession("verifying", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if verifyEmail == "" {
			if verifyEmail, err = terminal.Required(sc.prompt.ReadLine, "Email: "); err != nil {
				return err
			}
		}

		res := sess.Verify(cmd.Context(), verifyEmail, verifyOTP)
		if flagJSON || !res.Success {
			return report(cmd, res, "")
		}
		if res.Data.IsOtpSent {
			pterm.Info.Printfln("A one-time code was sent to %s. Run 'accessgate verify --email %s --otp <code>'", verifyEmail, verifyEmail)
			return nil
		}
		out := cmd.OutOrStdout()
		if !res.Data.IssuesSession() || !sess.IsAuthenticated() {
			fmt.Fprintln(out, "✅ Email verified. Run 'accessgate login' to start a session.")
			return nil
		}
		fmt.Fprintf(out, "✅ Email verified, you are logged in as %s\n", sess.State().Username())
		return nil
	}),
}

func init() {
	verifyCmd.Flags().StringVar(&verifyEmail, "email", "", "Email address to verify")
	verifyCmd.Flags().StringVar(&verifyOTP, "otp", "", "One-time code; omit to request a new one")
	rootCmd.AddCommand(verifyCmd)
}
