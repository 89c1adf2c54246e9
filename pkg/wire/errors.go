package wire

import (
	"errors"
	"fmt"
)

// Encode-time errors.
var (
	// ErrOverflow is returned when a batch is not representable: too
	// many patches or table strings for the fixed-width references, or
	// a string beyond the allocation limit. Nothing is truncated.
	ErrOverflow = errors.New("wire: value exceeds encodable range")
)

// Decode-time sentinel errors, always wrapped in a *DecodeError.
var (
	ErrBadStringRef = errors.New("wire: string table reference out of range")
	ErrUnknownOp    = errors.New("wire: unknown patch discriminant")
	ErrBadNodeKind  = errors.New("wire: unknown node kind")
	ErrDepthLimit   = errors.New("wire: node nesting exceeds depth limit")
)

// DecodeError reports a malformed buffer, with the byte offset where
// decoding failed. A failed decode yields no patches at all: sinks
// decode the whole batch before applying anything, so a bad buffer can
// never leave a render surface half-patched.
type DecodeError struct {
	Offset int
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decode failed at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeErr wraps err with the decoder's current offset.
func decodeErr(d *Decoder, err error) error {
	return &DecodeError{Offset: d.Position(), Err: err}
}
