package arg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_WireBytes(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       Arg
		expected    []byte
	}{
		{
			description: "Int -7, little-endian two's complement",
			input:       Int(-7),
			expected:    []byte{0xF9, 0xFF, 0xFF, 0xFF},
		},
		{
			description: "Int max",
			input:       Int(math.MaxInt32),
			expected:    []byte{0xFF, 0xFF, 0xFF, 0x7F},
		},
		{
			description: "Uint 0x01020304",
			input:       Uint(0x01020304),
			expected:    []byte{0x04, 0x03, 0x02, 0x01},
		},
		{
			description: "Float 12.5, padded to 8 bytes",
			input:       Float(12.5),
			expected:    []byte{0x08, 0, 0, 0, '1', '2', '.', '5', 0, 0, 0, 0},
		},
		{
			description: "Float zero",
			input:       Float(0),
			expected:    []byte{0x04, 0, 0, 0, '0', 0, 0, 0},
		},
		{
			description: "String empty, one word of NUL",
			input:       String(""),
			expected:    []byte{0x04, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			description: "String with 3 bytes of padding",
			input:       String("a"),
			expected:    []byte{0x04, 0, 0, 0, 'a', 0, 0, 0},
		},
		{
			description: "String with 2 bytes of padding",
			input:       String("ab"),
			expected:    []byte{0x04, 0, 0, 0, 'a', 'b', 0, 0},
		},
		{
			description: "String with 1 byte of padding",
			input:       String("abc"),
			expected:    []byte{0x04, 0, 0, 0, 'a', 'b', 'c', 0},
		},
		{
			description: "String of 4 bytes gets a full word of padding",
			input:       String("abcd"),
			expected:    []byte{0x08, 0, 0, 0, 'a', 'b', 'c', 'd', 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		body, err := Encode(tt.input)
		require.NoError(err)
		require.Equal(tt.expected, body)
		require.Equal(len(tt.expected), tt.input.Size())
	}
}

func TestEncode_Multiple(t *testing.T) {
	require := require.New(t)

	body, err := Encode(Int(1), Float(-0.5), String("SE"))
	require.NoError(err)
	require.Equal([]byte{
		0x01, 0, 0, 0,
		0x08, 0, 0, 0, '-', '0', '.', '5', 0, 0, 0, 0,
		0x04, 0, 0, 0, 'S', 'E', 0, 0,
	}, body)

	empty, err := Encode()
	require.NoError(err)
	require.Empty(empty)
}

func TestEncode_InvalidString(t *testing.T) {
	require := require.New(t)

	_, err := Encode(Int(1), String("a\x00b"))
	require.ErrorIs(err, ErrInvalidString)

	_, err = Encode(String("µm"))
	require.ErrorIs(err, ErrInvalidString)
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       []Arg
	}{
		{description: "ints", input: []Arg{Int(0), Int(-1), Int(math.MinInt32), Int(math.MaxInt32)}},
		{description: "uints", input: []Arg{Uint(0), Uint(1), Uint(math.MaxUint32)}},
		{description: "floats with trailing zero", input: []Arg{Float(10), Float(100.25), Float(1.5e3)}},
		{description: "negative floats", input: []Arg{Float(-0.001), Float(-273.15), Float(-1e-9)}},
		{description: "floats with exponent", input: []Arg{Float(6.02214076e23), Float(1e-12), Float(-3.5e20)}},
		{description: "float extremes", input: []Arg{Float(math.MaxFloat64), Float(math.SmallestNonzeroFloat64)}},
		{description: "strings with 1-3 bytes of padding", input: []Arg{String("abc"), String("ab"), String("a")}},
		{description: "strings on a word boundary", input: []Arg{String(""), String("abcd"), String("SEM Vega3 XMU")}},
		{description: "mixed", input: []Arg{String("ScScanXY"), Int(-7), Float(12.5), Uint(42), String("x")}},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		body, err := Encode(tt.input...)
		require.NoError(err)

		decoded, err := Decode(body, Kinds(tt.input...)...)
		require.NoError(err)
		require.Equal(tt.input, decoded)
	}
}

func TestRoundTrip_NonFinite(t *testing.T) {
	require := require.New(t)

	body, err := Encode(Float(math.Inf(1)), Float(math.Inf(-1)), Float(math.NaN()))
	require.NoError(err)

	values, err := Decode(body, KindFloat, KindFloat, KindFloat)
	require.NoError(err)

	v0, _ := values[0].ToFloat()
	v1, _ := values[1].ToFloat()
	v2, _ := values[2].ToFloat()
	require.True(math.IsInf(v0, 1))
	require.True(math.IsInf(v1, -1))
	require.True(math.IsNaN(v2))
}

func TestEncode_Alignment(t *testing.T) {
	require := require.New(t)

	for n := 0; n < 64; n++ {
		s := make([]byte, n)
		for i := range s {
			s[i] = 'a' + byte(i%26)
		}
		body, err := Encode(String(s))
		require.NoError(err)
		require.Zero(len(body)%4, "string length %d", n)
		require.Equal(0, int(body[len(body)-1]), "string length %d must end with NUL", n)
	}

	for _, v := range []float64{0, 1, -1, 0.1, 1.0 / 3, 12.5, 1e-5, 1e16, -9.87654321e-200, 123456789.125} {
		body, err := Encode(Float(v))
		require.NoError(err)
		require.Zero(len(body)%4, "float %v", v)
	}
}

func TestDecode_Errors(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       []byte
		kinds       []Kind
		expectedErr error
	}{
		{
			description: "empty body for int",
			input:       []byte{},
			kinds:       []Kind{KindInt},
			expectedErr: ErrTruncatedMessage,
		},
		{
			description: "short int",
			input:       []byte{0x01, 0x02, 0x03},
			kinds:       []Kind{KindUint},
			expectedErr: ErrTruncatedMessage,
		},
		{
			description: "second argument missing",
			input:       []byte{0x01, 0, 0, 0},
			kinds:       []Kind{KindInt, KindInt},
			expectedErr: ErrTruncatedMessage,
		},
		{
			description: "string length exceeds body",
			input:       []byte{0x08, 0, 0, 0, 'a', 'b', 0, 0},
			kinds:       []Kind{KindString},
			expectedErr: ErrTruncatedMessage,
		},
		{
			description: "huge string length",
			input:       []byte{0xFF, 0xFF, 0xFF, 0xFF, 'a', 'b', 0, 0},
			kinds:       []Kind{KindString},
			expectedErr: ErrTruncatedMessage,
		},
		{
			description: "float text is not numeric",
			input:       []byte{0x04, 0, 0, 0, 'a', 'b', 'c', 0},
			kinds:       []Kind{KindFloat},
			expectedErr: ErrMalformedFloat,
		},
		{
			description: "float text is empty",
			input:       []byte{0x04, 0, 0, 0, 0, 0, 0, 0},
			kinds:       []Kind{KindFloat},
			expectedErr: ErrMalformedFloat,
		},
		{
			description: "float text is hexadecimal",
			input:       []byte{0x08, 0, 0, 0, '0', 'x', '1', 'p', '-', '2', 0, 0},
			kinds:       []Kind{KindFloat},
			expectedErr: ErrMalformedFloat,
		},
		{
			description: "unknown kind",
			input:       []byte{0x01, 0, 0, 0},
			kinds:       []Kind{Kind(9)},
			expectedErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		args, err := Decode(tt.input, tt.kinds...)
		require.ErrorIs(err, tt.expectedErr)
		require.Nil(args)
	}
}

func TestDecode_Lenient(t *testing.T) {
	require := require.New(t)

	// trailing bytes after the last expected kind are ignored
	args, err := Decode([]byte{0x05, 0, 0, 0, 0xAA, 0xBB}, KindInt)
	require.NoError(err)
	require.Equal([]Arg{Int(5)}, args)

	// text stops at the first NUL, without a terminator the whole field is used
	args, err = Decode([]byte{0x04, 0, 0, 0, 'a', 'b', 'c', 'd'}, KindString)
	require.NoError(err)
	require.Equal([]Arg{String("abcd")}, args)

	args, err = Decode([]byte{0x08, 0, 0, 0, 'a', 0, 'b', 0, 0, 0, 0, 0}, KindString)
	require.NoError(err)
	require.Equal([]Arg{String("a")}, args)

	// float text written by other clients
	args, err = Decode([]byte{0x08, 0, 0, 0, ' ', '1', 'E', '3', 0, 0, 0, 0}, KindFloat)
	require.NoError(err)
	require.Equal([]Arg{Float(1000)}, args)

	// no kinds decodes nothing
	args, err = Decode([]byte{0x01})
	require.NoError(err)
	require.Empty(args)
}

func TestArg_Accessors(t *testing.T) {
	require := require.New(t)

	i, err := Int(-3).ToInt()
	require.NoError(err)
	require.Equal(int32(-3), i)

	u, err := Uint(3).ToUint()
	require.NoError(err)
	require.Equal(uint32(3), u)

	f, err := Float(0.25).ToFloat()
	require.NoError(err)
	require.InDelta(0.25, f, 0)

	s, err := String("ok").ToString()
	require.NoError(err)
	require.Equal("ok", s)

	_, err = Int(1).ToFloat()
	require.ErrorIs(err, ErrKindMismatch)
	_, err = Uint(1).ToInt()
	require.ErrorIs(err, ErrKindMismatch)
	_, err = Float(1).ToString()
	require.ErrorIs(err, ErrKindMismatch)
	_, err = String("1").ToUint()
	require.ErrorIs(err, ErrKindMismatch)

	require.Equal("-3", Int(-3).String())
	require.Equal("3", Uint(3).String())
	require.Equal("12.5", Float(12.5).String())
	require.Equal(`"ok"`, String("ok").String())
}

func TestFormatFloat(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{12.5, "12.5"},
		{-0.001, "-0.001"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e15, "1000000000000000"},
		{1e16, "1e+16"},
		{-2.5e-7, "-2.5e-07"},
		{0.1, "0.1"},
	}

	for _, tt := range tests {
		require.Equal(tt.expected, FormatFloat(tt.input), "input %v", tt.input)
	}
}

func TestKind(t *testing.T) {
	require := require.New(t)

	require.Equal(Kind(0), KindInt)
	require.Equal(Kind(1), KindUint)
	require.Equal(Kind(2), KindString)
	require.Equal(Kind(3), KindFloat)

	for _, k := range []Kind{KindInt, KindUint, KindString, KindFloat} {
		require.True(k.Valid())
		parsed, err := ParseKind(k.String())
		require.NoError(err)
		require.Equal(k, parsed)
	}

	require.False(Kind(4).Valid())
	require.Equal("kind(4)", Kind(4).String())

	_, err := ParseKind("double")
	require.ErrorIs(err, ErrUnknownKind)

	require.Equal([]Kind{KindFloat, KindString}, Kinds(Float(1), String("")))
}

func TestParse(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		kind        Kind
		input       string
		expected    Arg
		expectErr   bool
	}{
		{description: "int", kind: KindInt, input: "-7", expected: Int(-7)},
		{description: "int hex", kind: KindInt, input: "0x10", expected: Int(16)},
		{description: "int overflow", kind: KindInt, input: "2147483648", expectErr: true},
		{description: "uint", kind: KindUint, input: "4294967295", expected: Uint(math.MaxUint32)},
		{description: "uint negative", kind: KindUint, input: "-1", expectErr: true},
		{description: "float", kind: KindFloat, input: "12.5", expected: Float(12.5)},
		{description: "float exponent", kind: KindFloat, input: "1e-3", expected: Float(0.001)},
		{description: "float invalid", kind: KindFloat, input: "twelve", expectErr: true},
		{description: "string", kind: KindString, input: "Vega", expected: String("Vega")},
		{description: "string non-ascii", kind: KindString, input: "Å", expectErr: true},
		{description: "unknown kind", kind: Kind(7), input: "1", expectErr: true},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		a, err := Parse(tt.kind, tt.input)
		if tt.expectErr {
			require.Error(err)
			continue
		}
		require.NoError(err)
		require.Equal(tt.expected, a)
	}

	args, err := ParseAll([]Kind{KindInt, KindFloat}, []string{"1", "2.5"})
	require.NoError(err)
	require.Equal([]Arg{Int(1), Float(2.5)}, args)

	_, err = ParseAll([]Kind{KindInt}, []string{"1", "2"})
	require.Error(err)
}
