// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/auth"
	"accessgate/cli/internal/logging"
)

// sessionStatus is the machine-readable view printed by status --json.
type sessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	Email         string     `json:"email,omitempty"`
	Token         string     `json:"token,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// tokenClaims decodes the claims of a JWT access token without checking its
// signature. The result is for display only.
func tokenClaims(tok string) (subject string, expires *time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return "", nil, false
	}
	subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		expires = &t
	}
	return subject, expires, true
}

func statusOf(sess *auth.Session, sc *scope) sessionStatus {
	st := sess.State()
	out := sessionStatus{Authenticated: st.IsAuthenticated}
	if st.User != nil {
		out.Username = st.User.Username
		out.Email = st.User.Email
	}
	if tok, ok := sc.token(); ok {
		out.Token = logging.MaskToken(tok)
		out.Subject, out.ExpiresAt, _ = tokenClaims(tok)
	}
	return out
}

func printLoggedOut() {
	fmt.Println("🔒 You're not logged in.")
	fmt.Println("   Run 'accessgate login' to get started.")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `The status command renews the cached token (if any) and shows the resulting
session: whether it is authenticated, the user, a masked token and, for JWT
tokens, the unverified subject and expiry.`,
	RunE: withSession("checking the session", runStatus),
}

func runStatus(cmd *cobra.Command, args []string, sc *scope) error {
	sess, err := auth.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	s := statusOf(sess, sc)
	if flagJSON {
		return printJSON(cmd, s)
	}
	if !s.Authenticated && s.Token == "" {
		printLoggedOut()
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Authenticated: %t\n", s.Authenticated)
	if s.Username != "" {
		fmt.Fprintf(&b, "User:          %s", s.Username)
		if s.Email != "" {
			fmt.Fprintf(&b, " <%s>", s.Email)
		}
		b.WriteString("\n")
	}
	if s.Token != "" {
		fmt.Fprintf(&b, "Token:         %s\n", s.Token)
	}
	if s.Subject != "" {
		fmt.Fprintf(&b, "Subject:       %s\n", s.Subject)
	}
	if s.ExpiresAt != nil {
		fmt.Fprintf(&b, "Expires:       %s (%s)\n", s.ExpiresAt.Local().Format(time.RFC1123), expiresIn(*s.ExpiresAt))
	}
	pterm.DefaultBox.WithTitle("Session").Println(strings.TrimRight(b.String(), "\n"))
	return nil
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE: withSession("checking the session", func(cmd *cobra.Command, args []string, sc *scope) error {
		sess, err := auth.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		s := statusOf(sess, sc)
		if flagJSON {
			return printJSON(cmd, map[string]any{"authenticated": s.Authenticated, "username": s.Username})
		}
		if !s.Authenticated || s.Username == "" {
			printLoggedOut()
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👤 Current user: %s\n", s.Username)
		return nil
	}),
}

func expiresIn(t time.Time) string {
	d := time.Until(t).Round(time.Minute)
	if d <= 0 {
		return "expired"
	}
	return "in " + d.String()
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(whoamiCmd)
}
