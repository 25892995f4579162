package wire

import (
	"errors"
	"io"
	"net"
	"syscall"
)

var (
	// ErrConnClosed indicates that the peer closed the connection, or the connection was
	// closed locally, before a complete message was transferred.
	ErrConnClosed = errors.New("connection closed")

	// ErrShortHeader indicates that fewer than HeaderSize bytes were given to DecodeHeader.
	ErrShortHeader = errors.New("message header is shorter than 32 bytes")

	// ErrBodyTooLarge indicates a header whose body length exceeds the reader limit.
	ErrBodyTooLarge = errors.New("message body too large")

	// ErrInvalidWaitFlags indicates wait flags with bit 7 set, which is not a defined condition.
	ErrInvalidWaitFlags = errors.New("invalid wait flags, bit 7 is not a defined condition")
)

// IsClosedErr reports whether err means the connection is gone.
//
// It matches ErrConnClosed, end-of-stream errors, use of a locally closed connection,
// a closed pipe, and broken pipe or connection reset errors from the OS.
func IsClosedErr(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrConnClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrNoProgress) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}
