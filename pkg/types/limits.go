package types

// ============================================================================
// Input Limits Constants
// ============================================================================
// Updates are held in memory in full, before and after unwrapping. These
// constants bound both sizes.

const (
	// DefaultMaxInputBytes is the largest file read from disk (64 MB).
	DefaultMaxInputBytes = 64 << 20

	// DefaultMaxDecodedBytes is the largest payload produced by unwrapping a
	// compressed or base64 input (256 MB).
	DefaultMaxDecodedBytes = 256 << 20

	// StrictMaxInputBytes is a conservative limit for constrained
	// environments (4 MB).
	StrictMaxInputBytes = 4 << 20

	// StrictMaxDecodedBytes bounds unwrapped payloads in strict mode (16 MB).
	StrictMaxDecodedBytes = 16 << 20
)

// Limits constrains input acquisition to prevent resource exhaustion.
type Limits struct {
	// MaxInputBytes is the maximum size of a raw input file.
	MaxInputBytes int64

	// MaxDecodedBytes is the maximum size of an unwrapped payload. It guards
	// against decompression bombs.
	MaxDecodedBytes int64
}

// DefaultLimits returns limits suitable for interactive use.
func DefaultLimits() Limits {
	return Limits{
		MaxInputBytes:   DefaultMaxInputBytes,
		MaxDecodedBytes: DefaultMaxDecodedBytes,
	}
}

// StrictLimits returns conservative limits.
func StrictLimits() Limits {
	return Limits{
		MaxInputBytes:   StrictMaxInputBytes,
		MaxDecodedBytes: StrictMaxDecodedBytes,
	}
}

// WithMaxInput returns l with MaxInputBytes set to n. The decoded limit is
// raised to n when it would be smaller. Non-positive n leaves l unchanged.
func (l Limits) WithMaxInput(n int64) Limits {
	if n <= 0 {
		return l
	}
	l.MaxInputBytes = n
	if l.MaxDecodedBytes < n {
		l.MaxDecodedBytes = n
	}
	return l
}
