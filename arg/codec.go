package arg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/go-sharksem/internal/util"
)

// Encode encodes args in order and returns the concatenated message body.
func Encode(args ...Arg) ([]byte, error) {
	size := 0
	for _, a := range args {
		size += a.Size()
	}

	body := make([]byte, 0, size)
	for i, a := range args {
		var err error
		body, err = a.AppendTo(body)
		if err != nil {
			return nil, fmt.Errorf("encode argument %d: %w", i, err)
		}
	}

	return body, nil
}

// Append appends the encoding of a to dst.
func Append(dst []byte, a Arg) ([]byte, error) {
	return a.AppendTo(dst)
}

// Kinds returns the kinds of args in order.
func Kinds(args ...Arg) []Kind {
	kinds := make([]Kind, len(args))
	for i, a := range args {
		kinds[i] = a.Kind()
	}

	return kinds
}

// Decode decodes body into arguments of the given kinds.
//
// The body is consumed strictly in the order of kinds. A body that ends before every kind
// is decoded returns ErrTruncatedMessage, and float text that is not a base-10 number returns
// ErrMalformedFloat. Bytes remaining after the last kind are ignored.
func Decode(body []byte, kinds ...Kind) ([]Arg, error) {
	d := decoder{input: body}
	args := make([]Arg, 0, len(kinds))

	for i, kind := range kinds {
		a, err := d.decodeArg(kind)
		if err != nil {
			return nil, fmt.Errorf("decode argument %d (%s): %w", i, kind, err)
		}
		args = append(args, a)
	}

	return args, nil
}

type decoder struct {
	input  []byte
	offset int
}

func (d *decoder) remaining() int {
	return len(d.input) - d.offset
}

func (d *decoder) read(n int) ([]byte, error) {
	if n < 0 || n > d.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedMessage, n, d.remaining())
	}

	b := d.input[d.offset : d.offset+n]
	d.offset += n

	return b, nil
}

func (d *decoder) readUint32() (uint32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) readText() (string, error) {
	n, err := d.readUint32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.remaining()) {
		return "", fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedMessage, n, d.remaining())
	}

	b, err := d.read(int(n))
	if err != nil {
		return "", err
	}

	return string(util.TrimNull(b)), nil
}

func (d *decoder) decodeArg(kind Kind) (Arg, error) {
	switch kind {
	case KindInt:
		v, err := d.readUint32()
		return Int(int32(v)), err //nolint:gosec
	case KindUint:
		v, err := d.readUint32()
		return Uint(v), err
	case KindString:
		s, err := d.readText()
		return String(s), err
	case KindFloat:
		s, err := d.readText()
		if err != nil {
			return nil, err
		}
		v, err := ParseFloat(s)
		if err != nil {
			return nil, err
		}

		return Float(v), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// appendText appends a length-prefixed NUL-padded text field.
func appendText(dst []byte, s string) []byte {
	n := util.PadLen(len(s))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(n)) //nolint:gosec
	dst = append(dst, s...)
	for i := len(s); i < n; i++ {
		dst = append(dst, 0)
	}

	return dst
}

// FormatFloat returns the decimal text sent on the wire for v.
//
// Values with 1e-4 <= |v| < 1e16 and zero use fixed notation, other values use
// exponent notation. Both forms are the shortest text that parses back to v.
// Non-finite values are written as "nan", "inf" and "-inf".
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strconv.FormatFloat(v, 'e', -1, 64)
}

// ParseFloat parses the decimal text of a float argument.
//
// Surrounding white space is ignored. Hexadecimal and empty text is rejected with ErrMalformedFloat.
// Text out of the float64 range yields a signed infinity.
func ParseFloat(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFloat, text)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFloat, text)
	}

	return v, nil
}
