package buf

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

var (
	// ErrUnexpectedEnd is returned when a read runs past the end of the data.
	ErrUnexpectedEnd = errors.New("buf: unexpected end of data")
	// ErrIntegerOutOfRange is returned for variable length integers that do
	// not fit in a JavaScript safe integer.
	ErrIntegerOutOfRange = errors.New("buf: integer out of range")
)

// maxSafeInteger is Number.MAX_SAFE_INTEGER; lib0 refuses anything larger.
const maxSafeInteger = 1<<53 - 1

// maxAnyDepth bounds nesting of ReadAny so hostile input cannot exhaust the stack.
const maxAnyDepth = 512

// Any type tags, counted down from 127 as lib0 does.
const (
	anyUndefined  = 127
	anyNull       = 126
	anyInteger    = 125
	anyFloat32    = 124
	anyFloat64    = 123
	anyBigInt64   = 122
	anyFalse      = 121
	anyTrue       = 120
	anyString     = 119
	anyObject     = 118
	anyArray      = 117
	anyUint8Array = 116
)

// Reader decodes lib0 primitives from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads the next n bytes. The returned slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, ok := Slice(r.data, r.pos, n)
	if !ok {
		return nil, ErrUnexpectedEnd
	}
	r.pos += n
	return b, nil
}

// ReadVarUint reads an unsigned LEB128-style integer (7 bits per byte, low
// group first).
func (r *Reader) ReadVarUint() (uint64, error) {
	var num uint64
	var shift uint
	for {
		b, err := r.ReadUint8()
		if err != nil {
			return 0, err
		}
		num |= uint64(b&0x7f) << shift
		if b < 0x80 {
			if num > maxSafeInteger {
				return 0, ErrIntegerOutOfRange
			}
			return num, nil
		}
		shift += 7
		if shift > 53 {
			return 0, ErrIntegerOutOfRange
		}
	}
}

// ReadLen reads a VarUint that is used as a length or count and checks it
// fits in an int.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadVarInt reads a signed variable length integer. The first byte carries
// the sign in bit 6 and six value bits; continuation bytes carry seven.
func (r *Reader) ReadVarInt() (int64, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	num := uint64(b & 0x3f)
	negative := b&0x40 != 0
	shift := uint(6)
	for b&0x80 != 0 {
		b, err = r.ReadUint8()
		if err != nil {
			return 0, err
		}
		if shift > 53 {
			return 0, ErrIntegerOutOfRange
		}
		num |= uint64(b&0x7f) << shift
		shift += 7
	}
	if num > maxSafeInteger {
		return 0, ErrIntegerOutOfRange
	}
	if negative {
		return -int64(num), nil
	}
	return int64(num), nil
}

// ReadVarUint8Array reads a length-prefixed byte array.
func (r *Reader) ReadVarUint8Array() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(n)
}

// ReadVarString reads a length-prefixed UTF-8 string. Invalid sequences are
// replaced with U+FFFD, as TextDecoder does.
func (r *Reader) ReadVarString() (string, error) {
	b, err := r.ReadVarUint8Array()
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	return string([]rune(string(b))), nil
}

// ReadAny reads a self-describing value. undefined decodes to null and
// Uint8Array to a base64 string, the closest JSON-like forms.
func (r *Reader) ReadAny() (jsonv.Value, error) {
	return r.readAny(0)
}

func (r *Reader) readAny(depth int) (jsonv.Value, error) {
	if depth > maxAnyDepth {
		return nil, fmt.Errorf("buf: any nested deeper than %d", maxAnyDepth)
	}
	tag, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case anyUndefined, anyNull:
		return jsonv.Null{}, nil
	case anyInteger:
		n, err := r.ReadVarInt()
		if err != nil {
			return nil, err
		}
		return jsonv.Number(float64(n)), nil
	case anyFloat32:
		b, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		return jsonv.Number(float64(F32BE(b))), nil
	case anyFloat64:
		b, err := r.ReadBytes(8)
		if err != nil {
			return nil, err
		}
		return jsonv.Number(F64BE(b)), nil
	case anyBigInt64:
		b, err := r.ReadBytes(8)
		if err != nil {
			return nil, err
		}
		return jsonv.Number(float64(I64BE(b))), nil
	case anyFalse:
		return jsonv.Bool(false), nil
	case anyTrue:
		return jsonv.Bool(true), nil
	case anyString:
		s, err := r.ReadVarString()
		if err != nil {
			return nil, err
		}
		return jsonv.String(s), nil
	case anyObject:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		var b jsonv.ObjectBuilder
		for i := 0; i < n; i++ {
			key, err := r.ReadVarString()
			if err != nil {
				return nil, err
			}
			v, err := r.readAny(depth + 1)
			if err != nil {
				return nil, err
			}
			b.Set(key, v)
		}
		return b.Object(), nil
	case anyArray:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		if n > r.Remaining() {
			// every element takes at least one byte
			return nil, ErrUnexpectedEnd
		}
		arr := make(jsonv.Array, 0, n)
		for i := 0; i < n; i++ {
			v, err := r.readAny(depth + 1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case anyUint8Array:
		b, err := r.ReadVarUint8Array()
		if err != nil {
			return nil, err
		}
		return jsonv.String(base64.StdEncoding.EncodeToString(b)), nil
	}
	return nil, fmt.Errorf("buf: unknown any tag %d", tag)
}
