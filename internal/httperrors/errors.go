// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into user-friendly terminal
// messages. Its Handler is installed as the auth error callback by the CLI.
package httperrors

import (
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"accessgate/cli/internal/backend"
)

// Class is the broad category of a network failure.
type Class int

const (
	Generic Class = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

// Handler returns a callback for config.Config.OnAuthError. Raw transport
// errors are explained on the terminal; server failure values are only logged
// since the command that issued the request reports them itself.
func Handler(context, host string, log *slog.Logger) func(any) {
	if log == nil {
		log = slog.Default()
	}
	return func(v any) {
		err, ok := v.(error)
		if !ok {
			log.Debug("auth request failed", "error", backend.ErrorMessage(v))
			return
		}
		log.Debug("auth request could not be sent", "error", err)
		Display(err, context, host)
	}
}

// Classify reports which kind of network failure err is.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Generic
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	default:
		return Generic
	}
}

// Display shows a formatted message for err based on its class.
func Display(err error, context, host string) {
	switch Classify(err) {
	case Timeout:
		showTimeoutError(context)
	case DNS:
		showDNSError(context, host)
	case ConnectionRefused:
		showConnectionRefusedError(context)
	case TLS:
		showSSLError(context)
	case Server:
		showServerError(context)
	default:
		showGenericError(context, host, err.Error())
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks for 5xx markers in the error text.
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The auth server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • Server is under heavy load")
	pterm.Println("  • The request timeout is too short (ACCESSGATE_TIMEOUT)")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • The base URL is spelled correctly (accessgate config show)")
	pterm.Println()
}

func showConnectionRefusedError(context string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Println("The auth server is not accepting connections. This could mean:")
	pterm.Println("  • The service is not running")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. Try:")
	pterm.Println("  • Checking your system date and time")
	pterm.Println("  • Verifying network proxy settings")
	pterm.Println()
}

func showServerError(context string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Println("The auth server encountered an internal error. Please try again in a few minutes.")
	pterm.Println()
}

func showGenericError(context, host, errDetails string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, context)
	pterm.Println()

	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
