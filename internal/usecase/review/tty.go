package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal reports whether stdout is a terminal. Local review
// headings are colorized only when this is true, so piped or redirected
// output stays plain text.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
