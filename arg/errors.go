package arg

import "errors"

var (
	// ErrTruncatedMessage indicates that a body ended before all expected arguments were decoded.
	ErrTruncatedMessage = errors.New("truncated message")

	// ErrMalformedFloat indicates that a float argument does not contain base-10 numeric text.
	ErrMalformedFloat = errors.New("malformed float")

	// ErrUnknownKind indicates an argument kind outside of Int, Uint, String and Float.
	ErrUnknownKind = errors.New("unknown argument kind")

	// ErrInvalidString indicates a string argument that is not NUL-free ASCII.
	ErrInvalidString = errors.New("string argument must be ASCII without NUL bytes")

	// ErrKindMismatch indicates an accessor was called on an argument of another kind.
	ErrKindMismatch = errors.New("argument kind mismatch")
)
