// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// TerminalWidth returns the width of the terminal attached to stdout, or 0 when stdout is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// PrintErasable prints an ephemeral message to stderr and returns a closure to clear it.
// Nothing is printed when stderr is not a terminal.
func PrintErasable(msg string) (eraser func()) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}

	fmt.Fprintf(os.Stderr, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}
