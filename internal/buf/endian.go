// Package buf contains the lib0 binary codec used by Yjs updates: variable
// length integers, length-prefixed strings and byte arrays, big-endian
// floats, and the self-describing "any" encoding.
package buf

import (
	"encoding/binary"
	"math"
)

// F32BE reads a big-endian float32 from b. Returns 0 when b is too short.
func F32BE(b []byte) float32 {
	if len(b) < 4 {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

// F64BE reads a big-endian float64 from b. Returns 0 when b is too short.
func F64BE(b []byte) float64 {
	if len(b) < 8 {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// I64BE reads a big-endian int64 from b. Returns 0 when b is too short.
func I64BE(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// PutF32BE writes v into b as a big-endian float32. b must hold 4 bytes.
func PutF32BE(b []byte, v float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
}

// PutF64BE writes v into b as a big-endian float64. b must hold 8 bytes.
func PutF64BE(b []byte, v float64) {
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
}

// PutI64BE writes v into b as a big-endian int64. b must hold 8 bytes.
func PutI64BE(b []byte, v int64) {
	binary.BigEndian.PutUint64(b, uint64(v))
}
