package scan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// pattern returns n bytes whose value depends on the absolute image offset.
func pattern(offset, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte((offset + i) * 7)
	}

	return b
}

func frag(channel uint32, offset, n int) Fragment {
	return Fragment{
		FrameID:      1,
		Channel:      channel,
		Offset:       uint32(offset), //nolint:gosec
		BitsPerPixel: 8,
		Data:         pattern(offset, n),
	}
}

func TestAssembler_InOrder(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(0, 300)
	require.False(asm.Done())

	for off := 0; off < 300; off += 100 {
		require.Equal(Appended, asm.Add(frag(0, off, 100)))
	}

	require.True(asm.Done())
	require.Equal(300, asm.Len())
	require.Equal(pattern(0, 300), asm.Image())
}

func TestAssembler_DuplicateIdempotence(t *testing.T) {
	require := require.New(t)

	once := NewAssembler(1, 200)
	once.Add(frag(1, 0, 100))
	once.Add(frag(1, 100, 100))

	twice := NewAssembler(1, 200)
	twice.Add(frag(1, 0, 100))
	require.Equal(Rewound, twice.Add(frag(1, 0, 100)))
	require.Equal(100, twice.Len())
	twice.Add(frag(1, 100, 100))
	require.Equal(Rewound, twice.Add(frag(1, 100, 100)))

	require.True(once.Done())
	require.True(twice.Done())
	require.Equal(once.Image(), twice.Image())
}

func TestAssembler_GapThenResend(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(0, 200)

	require.Equal(DiscardGap, asm.Add(frag(0, 100, 100)))
	require.Equal(0, asm.Len())

	require.Equal(Appended, asm.Add(frag(0, 0, 60)))
	require.Equal(DiscardGap, asm.Add(frag(0, 100, 100)))
	require.Equal(Appended, asm.Add(frag(0, 60, 40)))
	require.Equal(100, asm.Len())

	require.Equal(Appended, asm.Add(frag(0, 100, 100)))
	require.True(asm.Done())
	require.Equal(pattern(0, 200), asm.Image())
}

func TestAssembler_OverlapRewind(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(0, 120)
	asm.Add(frag(0, 0, 50))
	asm.Add(frag(0, 50, 30))
	require.Equal(80, asm.Len())

	resend := frag(0, 50, 40)
	resend.Data = bytes.Repeat([]byte{0xEE}, 40)

	require.Equal(Rewound, asm.Add(resend))
	require.Equal(90, asm.Len())
	require.Equal(pattern(0, 50), asm.Image()[:50])
	require.Equal(bytes.Repeat([]byte{0xEE}, 40), asm.Image()[50:90])
}

func TestAssembler_Discards(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(2, 100)
	asm.Add(frag(2, 0, 40))

	require.Equal(DiscardChannel, asm.Add(frag(3, 40, 10)))
	require.Equal(40, asm.Len())

	deep := frag(2, 40, 10)
	deep.BitsPerPixel = 16
	require.Equal(DiscardDepth, asm.Add(deep))
	require.Equal(40, asm.Len())

	// a rewind takes effect even if the fragment depth is then rejected
	deep.Offset = 20
	require.Equal(DiscardDepth, asm.Add(deep))
	require.Equal(20, asm.Len())
}

func TestAssembler_TrimToSize(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(0, 150)
	asm.Add(frag(0, 0, 100))
	require.Equal(pattern(0, 100), asm.Image())

	asm.Add(frag(0, 100, 100))
	require.True(asm.Done())
	require.Equal(200, asm.Len())
	require.Len(asm.Image(), 150)
	require.Equal(pattern(0, 150), asm.Image())

	asm.Reset()
	require.Equal(0, asm.Len())
	require.False(asm.Done())
}

func TestAssembler_ZeroSize(t *testing.T) {
	require := require.New(t)

	asm := NewAssembler(0, -1)
	require.Equal(0, asm.Size())
	require.True(asm.Done())
	require.Empty(asm.Image())
}
