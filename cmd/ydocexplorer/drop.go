package main

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// parseDroppedPaths extracts file paths from text a terminal pastes when
// files are dropped on it. Terminals differ: some paste one path per line,
// some separate paths with spaces and backslash-escape spaces inside them,
// some quote each path, and some paste file:// URIs.
func parseDroppedPaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		words, err := shellquote.Split(line)
		if err != nil {
			// Unbalanced quotes: take the line as one path.
			words = []string{line}
		}
		for _, tok := range words {
			if p := fromFileURI(tok); p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// fromFileURI decodes a file:// URI into a path and returns other tokens
// unchanged.
func fromFileURI(tok string) string {
	if !strings.HasPrefix(tok, "file://") {
		return tok
	}
	u, err := url.Parse(tok)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}

// expandHome replaces a leading ~/ with the home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
