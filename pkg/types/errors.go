package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMalformed   ErrKind = iota // update bytes could not be applied
	ErrKindIO                         // reading or unwrapping an input failed
	ErrKindState                      // invalid operation for current state (e.g., bad selection)
	ErrKindUnsupported                // valid request we don't support (e.g., export format)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindMalformed:
		return "malformed"
	case ErrKindIO:
		return "io"
	case ErrKindState:
		return "state"
	case ErrKindUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so wrapped errors compare equal to
// the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrMalformedUpdate indicates the bytes are not a valid CRDT update.
	ErrMalformedUpdate = &Error{Kind: ErrKindMalformed, Msg: "malformed update"}
	// ErrIO indicates an input could not be read or unwrapped.
	ErrIO = &Error{Kind: ErrKindIO, Msg: "input error"}
	// ErrState indicates an operation that is invalid for the current state.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid state"}
	// ErrUnsupported indicates a recognized but unsupported request.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported"}
)

// New returns an *Error of kind wrapping cause.
func New(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
