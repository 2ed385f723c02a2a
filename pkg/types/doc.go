// Package types holds the small set of types shared by the decode, session
// and input packages: typed errors with stable categories, decode
// diagnostics and input size limits.
//
// Design goals:
//   - Typed errors with stable categories (malformed/io/state/unsupported).
//   - Never panic on malformed input; report it.
//   - Diagnostics are collected only when asked for.
//
// This package has no dependencies beyond the standard library.
package types
