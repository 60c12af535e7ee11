// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("  alice \nsecret\n"), Out: &out}

	got, err := p.ReadLine("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Username: ", out.String())

	// The buffered reader keeps the rest of the input for the next prompt.
	got, err = p.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestReadLine_EOF(t *testing.T) {
	p := &Prompter{In: strings.NewReader("last"), Out: io.Discard}
	got, err := p.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestRequired(t *testing.T) {
	p := &Prompter{In: strings.NewReader("\n"), Out: io.Discard}
	_, err := Required(p.ReadLine, "Email: ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLinesFor(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 2},
		{10, 80, 2},
		{80, 80, 2},
		{81, 80, 3},
		{200, 0, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, linesFor(tt.length, tt.width), "length=%d width=%d", tt.length, tt.width)
	}
}
