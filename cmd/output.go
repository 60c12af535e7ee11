// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/backend"
)

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

// report prints the outcome of one auth operation. Failures become the
// command's error so the process exits non-zero.
func report(cmd *cobra.Command, res backend.Result[backend.AuthResponse], success string) error {
	if flagJSON {
		if err := printJSON(cmd, res); err != nil {
			return err
		}
		return res.Err()
	}
	if !res.Success {
		return res.Err()
	}
	if res.Data.Message != "" {
		success = res.Data.Message
	}
	pterm.Success.Println(success)
	return nil
}

// loginGreeting returns a random greeting for identifier.
func loginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
