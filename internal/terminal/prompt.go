// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned by required prompts when the answer is blank.
var ErrEmptyInput = errors.New("input is required")

// Prompter reads answers from In and writes prompts to Out. When In is a
// terminal, secrets are read without echo.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Clear removes prompts from the screen after they are answered.
	Clear bool

	reader *bufio.Reader
}

// Stdio returns a Prompter bound to the process's standard streams.
func Stdio() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout, Clear: term.IsTerminal(int(os.Stdout.Fd()))}
}

func (p *Prompter) buffered() *bufio.Reader {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader
}

// ReadLine prints prompt and returns the trimmed answer. An answer that ends
// at EOF without a newline is still returned.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	ans, err := p.buffered().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && ans != "") {
		return "", err
	}
	ans = strings.TrimSpace(ans)
	if p.Clear {
		ClearPreviousLines(len(prompt) + len(ans))
	}
	return ans, nil
}

// ReadSecret prints prompt and reads an answer without echoing it when In is
// a terminal. Otherwise it behaves like ReadLine without clearing.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	f, ok := p.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		prev := p.Clear
		p.Clear = false
		defer func() { p.Clear = prev }()
		return p.ReadLine(prompt)
	}
	fmt.Fprint(p.Out, prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Required calls read and fails with ErrEmptyInput on a blank answer.
func Required(read func(string) (string, error), prompt string) (string, error) {
	ans, err := read(prompt)
	if err != nil {
		return "", err
	}
	if ans == "" {
		return "", ErrEmptyInput
	}
	return ans, nil
}
