package wire

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/arloliu/go-sharksem/internal/util"
)

const (
	// NameSize is the size of the NUL-padded function name field.
	NameSize = 16
	// ControlSize is the size of the control block following the name.
	ControlSize = 16
	// HeaderSize is the total size of a message header.
	HeaderSize = NameSize + ControlSize
)

// WaitFlags selects the instrument conditions a command waits on before it is executed.
//
// Bit n means "wait on condition n". Only bits 0 to 6 are defined.
type WaitFlags uint8

const (
	WaitScan        WaitFlags = 1 << iota // A: scanning finished
	WaitStage                             // B: stage movement finished
	WaitOptics                            // C: electron optics settled
	WaitAutoProc                          // D: automatic procedure finished
	WaitFIBScan                           // E: FIB scanning finished
	WaitFIBOptics                         // F: FIB optics settled
	WaitFIBAutoProc                       // G: FIB automatic procedure finished

	// WaitNone disables waiting.
	WaitNone WaitFlags = 0
	// WaitAll is the set of all defined conditions.
	WaitAll = WaitScan | WaitStage | WaitOptics | WaitAutoProc | WaitFIBScan | WaitFIBOptics | WaitFIBAutoProc
)

var waitFlagNames = [...]string{"scan", "stage", "optics", "auto", "fib-scan", "fib-optics", "fib-auto"}

// Valid reports whether f contains only defined conditions.
func (f WaitFlags) Valid() bool {
	return f&^WaitAll == 0
}

// String returns the condition names joined by "|", or "none".
func (f WaitFlags) String() string {
	if f == WaitNone {
		return "none"
	}

	names := make([]string, 0, 8)
	for i, name := range waitFlagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if f&^WaitAll != 0 {
		names = append(names, fmt.Sprintf("0x%02x", uint8(f&^WaitAll)))
	}

	return strings.Join(names, "|")
}

// ParseWaitFlags parses wait flags from text.
//
// The text is either a sequence of condition letters ("A" to "G", case-insensitive, e.g. "AB"),
// or condition names separated by "|" or "," (e.g. "scan|stage"). Empty text and "none" yield WaitNone.
func ParseWaitFlags(text string) (WaitFlags, error) {
	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" || s == "none" {
		return WaitNone, nil
	}

	if isLetterFlags(s) {
		var f WaitFlags
		for i := 0; i < len(s); i++ {
			f |= 1 << (s[i] - 'a')
		}

		return f, nil
	}

	var f WaitFlags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		found := false
		for i, name := range waitFlagNames {
			if part == name {
				f |= 1 << i
				found = true

				break
			}
		}
		if !found {
			return WaitNone, fmt.Errorf("unknown wait condition %q", part)
		}
	}

	return f, nil
}

func isLetterFlags(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'g' {
			return false
		}
	}

	return true
}

// Header is the decoded 32-byte message header.
type Header struct {
	// Name is the function name, without NUL padding.
	Name string
	// BodyLen is the number of body bytes following the header.
	BodyLen uint32
	// Flags is the reserved flags word, zero when sent by this package.
	Flags uint32
	// WaitFlags is the high byte of the wait word.
	WaitFlags WaitFlags
}

// EncodeName returns name truncated or NUL-padded to exactly NameSize bytes.
func EncodeName(name string) [NameSize]byte {
	var b [NameSize]byte
	copy(b[:], name)

	return b
}

// DecodeName returns the name stored in b, stopping at the first NUL byte.
func DecodeName(b []byte) string {
	if len(b) > NameSize {
		b = b[:NameSize]
	}

	return string(util.TrimNull(b))
}

// EncodeHeader builds the header for a message with the given name, body length and wait flags.
func EncodeHeader(name string, bodyLen uint32, wait WaitFlags) [HeaderSize]byte {
	var b [HeaderSize]byte
	n := EncodeName(name)
	copy(b[:NameSize], n[:])

	ctrl := b[NameSize:]
	binary.LittleEndian.PutUint32(ctrl[0:4], bodyLen)
	binary.LittleEndian.PutUint32(ctrl[4:8], 0)
	binary.LittleEndian.PutUint16(ctrl[8:10], uint16(wait)<<8)
	binary.LittleEndian.PutUint16(ctrl[10:12], 0)
	binary.LittleEndian.PutUint32(ctrl[12:16], 0)

	return b
}

// DecodeHeader decodes the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: have %d bytes", ErrShortHeader, len(b))
	}

	ctrl := b[NameSize:HeaderSize]

	return Header{
		Name:      DecodeName(b[:NameSize]),
		BodyLen:   binary.LittleEndian.Uint32(ctrl[0:4]),
		Flags:     binary.LittleEndian.Uint32(ctrl[4:8]),
		WaitFlags: WaitFlags(binary.LittleEndian.Uint16(ctrl[8:10]) >> 8),
	}, nil
}
