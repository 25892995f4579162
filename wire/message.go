package wire

import (
	"fmt"
	"math"
)

// Message is a complete SharkSEM message: header and body.
type Message struct {
	Header
	Body []byte
}

// NewMessage creates a message with the given name, wait flags and body.
//
// The header body length is set from len(body).
func NewMessage(name string, wait WaitFlags, body []byte) *Message {
	return &Message{
		Header: Header{
			Name:      name,
			BodyLen:   uint32(len(body)), //nolint:gosec
			WaitFlags: wait,
		},
		Body: body,
	}
}

// MarshalBinary returns the encoded header followed by the body.
//
// It implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	if uint64(len(m.Body)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, len(m.Body))
	}
	if int(m.BodyLen) != len(m.Body) {
		return nil, fmt.Errorf("body length %d does not match body size %d", m.BodyLen, len(m.Body))
	}

	hdr := EncodeHeader(m.Name, m.BodyLen, m.WaitFlags)
	buf := make([]byte, 0, HeaderSize+len(m.Body))
	buf = append(buf, hdr[:]...)
	buf = append(buf, m.Body...)

	return buf, nil
}

func (m *Message) String() string {
	return fmt.Sprintf("%s wait=%s body=%d", m.Name, m.WaitFlags, len(m.Body))
}
