// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// parseBearerToken extracts the token from a value like "Bearer <token>",
// case-insensitively. It returns "" for any other format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") {
		if rest := strings.TrimSpace(v[6:]); rest != "" {
			return rest
		}
	}
	return ""
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bearer abc", "abc"},
		{"bearer   abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseBearerToken(tt.in), tt.in)
	}
}

func TestContextWithToken(t *testing.T) {
	_, ok := tokenFromContext(context.Background())
	assert.False(t, ok)

	tok, ok := tokenFromContext(ContextWithToken(context.Background(), ""))
	assert.True(t, ok, "an empty pinned token still overrides the store")
	assert.Empty(t, tok)
}
