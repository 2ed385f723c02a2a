package buf

import (
	"math"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Writer encodes lib0 primitives. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(b uint8) { w.buf = append(w.buf, b) }

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// WriteVarUint appends n using 7 bits per byte.
func (w *Writer) WriteVarUint(n uint64) {
	for n > 0x7f {
		w.buf = append(w.buf, 0x80|byte(n&0x7f))
		n >>= 7
	}
	w.buf = append(w.buf, byte(n))
}

// WriteVarInt appends a signed integer in the lib0 VarInt layout.
func (w *Writer) WriteVarInt(n int64) {
	var negative byte
	u := uint64(n)
	if n < 0 {
		negative = 0x40
		u = uint64(-n)
	}
	first := negative | byte(u&0x3f)
	if u > 0x3f {
		first |= 0x80
	}
	w.buf = append(w.buf, first)
	u >>= 6
	for u > 0 {
		b := byte(u & 0x7f)
		if u > 0x7f {
			b |= 0x80
		}
		w.buf = append(w.buf, b)
		u >>= 7
	}
}

// WriteVarUint8Array appends a length-prefixed byte array.
func (w *Writer) WriteVarUint8Array(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteVarString appends a length-prefixed UTF-8 string.
func (w *Writer) WriteVarString(s string) {
	w.WriteVarUint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteAny appends v using the same tag selection as lib0: small integers as
// VarInt, values exactly representable as float32 as float32, everything
// else as float64.
func (w *Writer) WriteAny(v jsonv.Value) {
	switch x := v.(type) {
	case nil, jsonv.Null:
		w.WriteUint8(anyNull)
	case jsonv.Bool:
		if x {
			w.WriteUint8(anyTrue)
		} else {
			w.WriteUint8(anyFalse)
		}
	case jsonv.String:
		w.WriteUint8(anyString)
		w.WriteVarString(string(x))
	case jsonv.Number:
		f := float64(x)
		switch {
		case f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32:
			w.WriteUint8(anyInteger)
			w.WriteVarInt(int64(f))
		case float64(float32(f)) == f:
			w.WriteUint8(anyFloat32)
			var b [4]byte
			PutF32BE(b[:], float32(f))
			w.WriteBytes(b[:])
		default:
			w.WriteUint8(anyFloat64)
			var b [8]byte
			PutF64BE(b[:], f)
			w.WriteBytes(b[:])
		}
	case jsonv.Array:
		w.WriteUint8(anyArray)
		w.WriteVarUint(uint64(len(x)))
		for _, el := range x {
			w.WriteAny(el)
		}
	case jsonv.Object:
		w.WriteUint8(anyObject)
		w.WriteVarUint(uint64(x.Len()))
		for _, m := range x.Members() {
			w.WriteVarString(m.Key)
			w.WriteAny(m.Value)
		}
	}
}
