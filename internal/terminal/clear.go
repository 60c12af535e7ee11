// Package terminal provides prompts and helpers for cleaning up the terminal
// after sensitive input.
package terminal

import (
	"math"
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// linesFor returns how many terminal rows textLength characters occupy at
// the given width, plus the row the cursor moved to after Enter.
func linesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	total := int(math.Ceil(float64(textLength) / float64(width)))
	if total < 1 {
		total = 1
	}
	return total + 1
}

// ClearPreviousLines clears a prompt and its echoed answer from the terminal.
// textLength is the number of characters printed (prompt + user input).
func ClearPreviousLines(textLength int) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	n := linesFor(textLength, width)

	// The cursor sits on the empty line below the input.
	cursor.ClearLine()
	cursor.ClearLinesUp(n - 1)
}
