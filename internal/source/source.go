// Package source acquires update payloads from files and streams and
// removes transport encodings before they are decoded.
//
// Updates are often stored compressed or pasted around as base64 text.
// Unwrap recognizes gzip, zstd and LZ4 frames by their magic bytes and
// base64 by its alphabet, and peels up to MaxLayers encodings.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/joshuapare/ydockit/internal/mmfile"
	"github.com/joshuapare/ydockit/pkg/session"
	"github.com/joshuapare/ydockit/pkg/types"
)

// MaxLayers bounds nested encodings, e.g. base64 of gzip.
const MaxLayers = 4

// Encoding names a transport encoding found around an update.
type Encoding string

const (
	EncodingGzip   Encoding = "gzip"
	EncodingZstd   Encoding = "zstd"
	EncodingLZ4    Encoding = "lz4"
	EncodingBase64 Encoding = "base64"
)

// ErrTooLarge is wrapped when a stream or unwrapped payload exceeds its limit.
var ErrTooLarge = errors.New("payload exceeds size limit")

// Reader reads inputs under fixed limits.
type Reader struct {
	limits types.Limits
}

// NewReader returns a Reader enforcing limits.
func NewReader(limits types.Limits) *Reader {
	return &Reader{limits: limits}
}

// ReadFile reads and unwraps the file at path. The input is named after the
// file's base name.
func (r *Reader) ReadFile(path string) (session.Input, error) {
	data, err := mmfile.ReadFile(path, r.limits.MaxInputBytes)
	if err != nil {
		return session.Input{}, types.New(types.ErrKindIO, fmt.Sprintf("read %s", path), err)
	}
	return r.input(filepath.Base(path), data)
}

// ReadFrom reads and unwraps everything from rd.
func (r *Reader) ReadFrom(name string, rd io.Reader) (session.Input, error) {
	data, err := readLimited(rd, r.limits.MaxInputBytes)
	if err != nil {
		return session.Input{}, types.New(types.ErrKindIO, fmt.Sprintf("read %s", name), err)
	}
	return r.input(name, data)
}

// ReadFiles reads every path. Inputs and failures are returned in path order.
func (r *Reader) ReadFiles(paths []string) ([]session.Input, []session.Failure) {
	var inputs []session.Input
	var failures []session.Failure
	for _, p := range paths {
		in, err := r.ReadFile(p)
		if err != nil {
			failures = append(failures, session.Failure{Name: filepath.Base(p), Err: err})
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, failures
}

func (r *Reader) input(name string, data []byte) (session.Input, error) {
	out, _, err := Unwrap(data, r.limits.MaxDecodedBytes)
	if err != nil {
		return session.Input{}, types.New(types.ErrKindIO, fmt.Sprintf("unwrap %s", name), err)
	}
	return session.Input{Name: name, Data: out}, nil
}

// Unwrap removes transport encodings from data and reports which ones it
// removed, outermost first. Data without a recognized encoding is returned
// as is. limit bounds every intermediate result; non-positive disables it.
func Unwrap(data []byte, limit int64) ([]byte, []Encoding, error) {
	var layers []Encoding
	for len(layers) < MaxLayers {
		enc, ok := Sniff(data)
		if !ok {
			break
		}
		out, err := decodeLayer(enc, data, limit)
		if err != nil {
			if enc == EncodingBase64 {
				// Text that merely looks like base64.
				break
			}
			return nil, layers, fmt.Errorf("%s: %w", enc, err)
		}
		layers = append(layers, enc)
		data = out
	}
	return data, layers, nil
}

func decodeLayer(enc Encoding, data []byte, limit int64) ([]byte, error) {
	switch enc {
	case EncodingGzip:
		return gunzip(data, limit)
	case EncodingZstd:
		return unzstd(data, limit)
	case EncodingLZ4:
		return unlz4(data, limit)
	case EncodingBase64:
		return unbase64(data)
	}
	return nil, fmt.Errorf("unknown encoding %q", enc)
}

func readLimited(rd io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(rd)
	}
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return buf.Bytes(), nil
}
