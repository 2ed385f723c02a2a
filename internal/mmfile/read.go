// Package mmfile reads update files through a read-only memory mapping.
package mmfile

import (
	"fmt"
	"io"
	"os"
)

// TooLargeError is returned by ReadFile when a file exceeds the limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("mmfile: %s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}

// ReadFile returns a private copy of the file at path. Files larger than
// limit are rejected before mapping; a non-positive limit disables the check.
// Pipes and other non-regular files are read as a stream.
func ReadFile(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return readStream(path, limit)
	}
	if n := info.Size(); limit > 0 && n > limit {
		return nil, &TooLargeError{Path: path, Size: n, Limit: limit}
	}

	data, cleanup, err := Map(path)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	if err := cleanup(); err != nil {
		return nil, fmt.Errorf("mmfile: unmap %s: %w", path, err)
	}
	return out, nil
}

// readStream reads path to EOF, stopping one byte past limit.
func readStream(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, &TooLargeError{Path: path, Size: int64(len(data)), Limit: limit}
	}
	return data, nil
}
