package main

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether output to stdout may carry ANSI colors.
func colorEnabled() bool {
	if noColor {
		return false
	}
	if c, err := appConfig(); err == nil && !c.Color {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeHighlighted writes code to w, syntax highlighted when color is on.
// Highlighting failures fall back to plain output.
func writeHighlighted(w io.Writer, code, lexer string) error {
	if colorEnabled() {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, code, lexer, "terminal256", "monokai"); err == nil {
			_, err := buf.WriteTo(w)
			return err
		}
	}
	_, err := io.WriteString(w, code)
	return err
}
