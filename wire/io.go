package wire

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxBodySize is the body limit used by NewReader when maxBody is zero.
const DefaultMaxBodySize = 64 << 20

// maxConsecutiveEmptyReads is the number of successive (0, nil) reads treated as a dead peer.
const maxConsecutiveEmptyReads = 100

// Reader reads complete SharkSEM messages from an underlying stream.
//
// Reader is NOT goroutine-safe. Only one ReadMessage call may be active at a time.
type Reader struct {
	r       io.Reader
	maxBody uint32
	hdr     [HeaderSize]byte
}

// NewReader creates a Reader on r. Bodies larger than maxBody are rejected
// with ErrBodyTooLarge; a zero maxBody selects DefaultMaxBodySize.
func NewReader(r io.Reader, maxBody uint32) *Reader {
	if maxBody == 0 {
		maxBody = DefaultMaxBodySize
	}

	return &Reader{r: r, maxBody: maxBody}
}

// ReadMessage blocks until one complete message is read.
//
// It reads the 32-byte header, then exactly the announced number of body bytes. A stream that
// ends before the expected count returns an error wrapping ErrConnClosed; the reader must not
// be used after any error, since the stream position is then unknown.
func (mr *Reader) ReadMessage() (*Message, error) {
	if err := ReadFull(mr.r, mr.hdr[:]); err != nil {
		return nil, fmt.Errorf("read message header: %w", err)
	}

	hdr, err := DecodeHeader(mr.hdr[:])
	if err != nil {
		return nil, err
	}

	if hdr.BodyLen > mr.maxBody {
		return nil, fmt.Errorf("%w: %s announces %d bytes, limit %d", ErrBodyTooLarge, hdr.Name, hdr.BodyLen, mr.maxBody)
	}

	body := make([]byte, hdr.BodyLen)
	if err := ReadFull(mr.r, body); err != nil {
		return nil, fmt.Errorf("read %s body (%d bytes): %w", hdr.Name, hdr.BodyLen, err)
	}

	return &Message{Header: hdr, Body: body}, nil
}

// ReadFull reads exactly len(buf) bytes from r.
//
// End of stream before len(buf) bytes, or repeated reads returning no data, return an
// error wrapping ErrConnClosed. Other errors are returned as they are.
func ReadFull(r io.Reader, buf []byte) error {
	read := 0
	empty := 0
	for read < len(buf) {
		n, err := r.Read(buf[read:])
		read += n
		if err != nil {
			if read == len(buf) && errors.Is(err, io.EOF) {
				return nil
			}

			return closedErr(err, read, len(buf))
		}

		if n > 0 {
			empty = 0
			continue
		}

		empty++
		if empty >= maxConsecutiveEmptyReads {
			return closedErr(io.ErrNoProgress, read, len(buf))
		}
	}

	return nil
}

// WriteFull writes all of b to w, retrying partial writes.
//
// A write that makes no progress without reporting an error returns io.ErrShortWrite.
func WriteFull(w io.Writer, b []byte) error {
	written := 0
	for written < len(b) {
		n, err := w.Write(b[written:])
		written += n
		if err != nil {
			return closedErr(err, written, len(b))
		}

		if n == 0 {
			return fmt.Errorf("wrote %d of %d bytes: %w", written, len(b), io.ErrShortWrite)
		}
	}

	return nil
}

// WriteMessage writes the header and body of one message to w in full.
func WriteMessage(w io.Writer, name string, wait WaitFlags, body []byte) error {
	data, err := NewMessage(name, wait, body).MarshalBinary()
	if err != nil {
		return err
	}

	if err := WriteFull(w, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

func closedErr(err error, done, want int) error {
	if IsClosedErr(err) {
		return fmt.Errorf("%w after %d of %d bytes: %w", ErrConnClosed, done, want, err)
	}

	return err
}
