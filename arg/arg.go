package arg

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/arloliu/go-sharksem/internal/util"
)

// Arg is a single typed SharkSEM argument or return value.
//
// The concrete types are Int, Uint, Float and String. Use a type switch or the
// ToInt/ToUint/ToFloat/ToString accessors to extract the value.
type Arg interface {
	// Kind returns the wire kind of the argument.
	Kind() Kind
	// Size returns the number of bytes the encoded argument occupies.
	Size() int
	// AppendTo appends the encoded argument to dst and returns the extended slice.
	AppendTo(dst []byte) ([]byte, error)
	// String returns a human readable representation of the value.
	String() string

	// ToInt returns the value of an Int argument.
	ToInt() (int32, error)
	// ToUint returns the value of a Uint argument.
	ToUint() (uint32, error)
	// ToFloat returns the value of a Float argument.
	ToFloat() (float64, error)
	// ToString returns the value of a String argument.
	ToString() (string, error)
}

// Int is a signed 32-bit integer argument.
type Int int32

// Uint is an unsigned 32-bit integer argument.
type Uint uint32

// Float is a floating point argument, transferred as decimal text.
type Float float64

// String is an ASCII string argument.
type String string

var (
	_ Arg = Int(0)
	_ Arg = Uint(0)
	_ Arg = Float(0)
	_ Arg = String("")
)

func mismatch(want Kind, a Arg) error {
	return fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, want, a.Kind())
}

// Kind implements Arg.Kind().
func (v Int) Kind() Kind { return KindInt }

// Size implements Arg.Size().
func (v Int) Size() int { return 4 }

// AppendTo implements Arg.AppendTo().
func (v Int) AppendTo(dst []byte) ([]byte, error) {
	return binary.LittleEndian.AppendUint32(dst, uint32(v)), nil
}

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// ToInt implements Arg.ToInt().
func (v Int) ToInt() (int32, error) { return int32(v), nil }

// ToUint implements Arg.ToUint().
func (v Int) ToUint() (uint32, error) { return 0, mismatch(KindUint, v) }

// ToFloat implements Arg.ToFloat().
func (v Int) ToFloat() (float64, error) { return 0, mismatch(KindFloat, v) }

// ToString implements Arg.ToString().
func (v Int) ToString() (string, error) { return "", mismatch(KindString, v) }

// Kind implements Arg.Kind().
func (v Uint) Kind() Kind { return KindUint }

// Size implements Arg.Size().
func (v Uint) Size() int { return 4 }

// AppendTo implements Arg.AppendTo().
func (v Uint) AppendTo(dst []byte) ([]byte, error) {
	return binary.LittleEndian.AppendUint32(dst, uint32(v)), nil
}

func (v Uint) String() string { return strconv.FormatUint(uint64(v), 10) }

// ToInt implements Arg.ToInt().
func (v Uint) ToInt() (int32, error) { return 0, mismatch(KindInt, v) }

// ToUint implements Arg.ToUint().
func (v Uint) ToUint() (uint32, error) { return uint32(v), nil }

// ToFloat implements Arg.ToFloat().
func (v Uint) ToFloat() (float64, error) { return 0, mismatch(KindFloat, v) }

// ToString implements Arg.ToString().
func (v Uint) ToString() (string, error) { return "", mismatch(KindString, v) }

// Kind implements Arg.Kind().
func (v Float) Kind() Kind { return KindFloat }

// Size implements Arg.Size().
func (v Float) Size() int { return 4 + util.PadLen(len(FormatFloat(float64(v)))) }

// AppendTo implements Arg.AppendTo().
func (v Float) AppendTo(dst []byte) ([]byte, error) {
	return appendText(dst, FormatFloat(float64(v))), nil
}

func (v Float) String() string { return FormatFloat(float64(v)) }

// ToInt implements Arg.ToInt().
func (v Float) ToInt() (int32, error) { return 0, mismatch(KindInt, v) }

// ToUint implements Arg.ToUint().
func (v Float) ToUint() (uint32, error) { return 0, mismatch(KindUint, v) }

// ToFloat implements Arg.ToFloat().
func (v Float) ToFloat() (float64, error) { return float64(v), nil }

// ToString implements Arg.ToString().
func (v Float) ToString() (string, error) { return "", mismatch(KindString, v) }

// Kind implements Arg.Kind().
func (v String) Kind() Kind { return KindString }

// Size implements Arg.Size().
func (v String) Size() int { return 4 + util.PadLen(len(v)) }

// AppendTo implements Arg.AppendTo().
//
// It returns ErrInvalidString if the value contains non-ASCII characters or NUL bytes.
func (v String) AppendTo(dst []byte) ([]byte, error) {
	if err := validateString(string(v)); err != nil {
		return dst, err
	}

	return appendText(dst, string(v)), nil
}

func (v String) String() string { return strconv.Quote(string(v)) }

// ToInt implements Arg.ToInt().
func (v String) ToInt() (int32, error) { return 0, mismatch(KindInt, v) }

// ToUint implements Arg.ToUint().
func (v String) ToUint() (uint32, error) { return 0, mismatch(KindUint, v) }

// ToFloat implements Arg.ToFloat().
func (v String) ToFloat() (float64, error) { return 0, mismatch(KindFloat, v) }

// ToString implements Arg.ToString().
func (v String) ToString() (string, error) { return string(v), nil }

func validateString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7f {
			return fmt.Errorf("%w: invalid byte 0x%02x at index %d", ErrInvalidString, s[i], i)
		}
	}

	return nil
}
