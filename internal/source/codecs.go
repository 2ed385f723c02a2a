package source

import (
	"bytes"
	"encoding/base64"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Sniff reports the outermost encoding of data, if any.
func Sniff(data []byte) (Encoding, bool) {
	switch {
	case bytes.HasPrefix(data, magicGzip):
		return EncodingGzip, true
	case bytes.HasPrefix(data, magicZstd):
		return EncodingZstd, true
	case bytes.HasPrefix(data, magicLZ4):
		return EncodingLZ4, true
	case looksBase64(data):
		return EncodingBase64, true
	}
	return "", false
}

func gunzip(data []byte, limit int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readLimited(zr, limit)
}

func unzstd(data []byte, limit int64) ([]byte, error) {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if limit > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(uint64(limit)))
	}
	dec, err := zstd.NewReader(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readLimited(dec, limit)
}

func unlz4(data []byte, limit int64) ([]byte, error) {
	return readLimited(lz4.NewReader(bytes.NewReader(data)), limit)
}

// looksBase64 accepts text of at least four characters drawn from the
// standard or URL-safe alphabets, with optional padding and whitespace.
func looksBase64(data []byte) bool {
	n := 0
	for _, c := range data {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '-', c == '_', c == '=':
		case c == ' ', c == '\n', c == '\r', c == '\t':
			continue
		default:
			return false
		}
		n++
	}
	return n >= 4
}

func unbase64(data []byte) ([]byte, error) {
	compact := make([]byte, 0, len(data))
	for _, c := range data {
		switch c {
		case ' ', '\n', '\r', '\t':
		default:
			compact = append(compact, c)
		}
	}
	s := string(compact)
	var lastErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		out, err := enc.DecodeString(s)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
