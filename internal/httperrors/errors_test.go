// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"accessgate/cli/internal/logging"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"deadline", context.DeadlineExceeded, Timeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "auth.invalid"}, DNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ConnectionRefused},
		{"refused text", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), ConnectionRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), TLS},
		{"server", errors.New("502 Bad Gateway"), Server},
		{"other", errors.New("unexpected EOF"), Generic},
		{"wrapped dns", fmt.Errorf("post: %w", &net.DNSError{Err: "no such host"}), DNS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "auth.example.com:8443", ExtractHostFromURL("https://auth.example.com:8443/api"))
	assert.Equal(t, "server", ExtractHostFromURL("not a url"))
}

func TestHandler(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	h := Handler("logging in", "auth.example.com", logging.Discard())
	assert.NotPanics(t, func() {
		h(map[string]any{"error": "invalid credentials"})
		h("plain")
		h(errors.New("connection refused"))
	})
}
