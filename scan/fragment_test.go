package scan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFragment(t *testing.T) {
	require := require.New(t)

	body := []byte{
		0x07, 0, 0, 0, // frame
		0x01, 0, 0, 0, // channel
		0x00, 0x01, 0, 0, // offset 256
		0x08, 0, 0, 0, // bpp
		0x03, 0, 0, 0, // payload length
		0xAA, 0xBB, 0xCC,
		0xFF, // ignored
	}

	f, err := ParseFragment(body)
	require.NoError(err)
	require.Equal(Fragment{FrameID: 7, Channel: 1, Offset: 256, BitsPerPixel: 8, Data: []byte{0xAA, 0xBB, 0xCC}}, f)

	encoded, err := f.MarshalBinary()
	require.NoError(err)
	require.Equal(body[:len(body)-1], encoded)
}

func TestParseFragment_Malformed(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       []byte
	}{
		{description: "empty body", input: []byte{}},
		{description: "header shorter than 20 bytes", input: make([]byte, 19)},
		{
			description: "payload length beyond body",
			input: []byte{
				0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0,
				0x05, 0, 0, 0,
				1, 2, 3, 4,
			},
		},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		_, err := ParseFragment(tt.input)
		require.ErrorIs(err, ErrMalformedFragment)

		_, err = ParseCameraFrame(tt.input)
		require.ErrorIs(err, ErrMalformedFragment)
	}
}

func TestCameraFrame_RoundTrip(t *testing.T) {
	require := require.New(t)

	frame := CameraFrame{Channel: 2, BitsPerPixel: 8, Width: 4, Height: 2, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	body, err := frame.MarshalBinary()
	require.NoError(err)
	require.Len(body, FragmentHeaderSize+8)
	require.Equal([]byte{2, 0, 0, 0, 8, 0, 0, 0, 4, 0, 0, 0, 2, 0, 0, 0, 8, 0, 0, 0}, body[:FragmentHeaderSize])

	decoded, err := ParseCameraFrame(body)
	require.NoError(err)
	require.Equal(frame, decoded)
}

func TestVerdict(t *testing.T) {
	require := require.New(t)

	require.False(Appended.Discarded())
	require.False(Rewound.Discarded())
	require.False(Accepted.Discarded())
	for _, v := range []Verdict{DiscardForeign, DiscardMalformed, DiscardChannel, DiscardGap, DiscardDepth} {
		require.True(v.Discarded(), v.String())
	}

	require.Equal("discard-gap", DiscardGap.String())
	require.Equal("unknown", Verdict(99).String())
}
