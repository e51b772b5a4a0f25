package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const defaultWidth = 80

// IsTTY reports whether stdout is an interactive terminal
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the terminal width, or 80 when stdout is not a terminal
func Width() int {
	if !IsTTY() {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// ClearScreen clears the screen when attached to a terminal
func ClearScreen() {
	if IsTTY() {
		fmt.Print("\033[H\033[2J")
	}
}
