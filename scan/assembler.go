package scan

// Verdict is the outcome of handling one data-channel message.
type Verdict uint8

const (
	// Appended means the fragment continued the image at the contiguous length.
	Appended Verdict = iota
	// Rewound means the fragment started before the contiguous length; the image was
	// truncated to the fragment offset and the payload appended.
	Rewound
	// Accepted means a camera frame was returned to the caller.
	Accepted
	// DiscardForeign means the message name is not the one being read.
	DiscardForeign
	// DiscardMalformed means the message body does not hold a complete fragment.
	DiscardMalformed
	// DiscardChannel means the fragment belongs to another acquisition channel.
	DiscardChannel
	// DiscardGap means the fragment starts after the contiguous length.
	DiscardGap
	// DiscardDepth means the fragment pixel depth is not 8 bits.
	DiscardDepth
)

var verdictNames = [...]string{
	Appended:         "appended",
	Rewound:          "rewound",
	Accepted:         "accepted",
	DiscardForeign:   "discard-foreign",
	DiscardMalformed: "discard-malformed",
	DiscardChannel:   "discard-channel",
	DiscardGap:       "discard-gap",
	DiscardDepth:     "discard-depth",
}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}

	return "unknown"
}

// Discarded reports whether the message was dropped without extending the image.
func (v Verdict) Discarded() bool {
	return v >= DiscardForeign
}

// Assembler accumulates the fragments of one channel into a gap-free image.
//
// Assembler is NOT goroutine-safe.
type Assembler struct {
	channel uint32
	size    int
	buf     []byte
}

// NewAssembler creates an Assembler for an image of size bytes on the given channel.
func NewAssembler(channel uint32, size int) *Assembler {
	if size < 0 {
		size = 0
	}

	return &Assembler{
		channel: channel,
		size:    size,
		buf:     make([]byte, 0, size),
	}
}

// Channel returns the acquisition channel being assembled.
func (a *Assembler) Channel() uint32 { return a.channel }

// Size returns the expected image size in bytes.
func (a *Assembler) Size() int { return a.size }

// Len returns the number of contiguous bytes received from offset 0.
func (a *Assembler) Len() int { return len(a.buf) }

// Done reports whether the contiguous length reached the expected size.
func (a *Assembler) Done() bool { return len(a.buf) >= a.size }

// Add applies one fragment and returns what was done with it.
//
// The checks run in this order: channel, rewind (offset before the contiguous length
// truncates the image to offset), gap (offset after the contiguous length discards),
// pixel depth, and finally the payload is appended. A rewind is applied even if the
// fragment is then discarded for its pixel depth.
func (a *Assembler) Add(f Fragment) Verdict {
	if f.Channel != a.channel {
		return DiscardChannel
	}

	rewound := false
	offset := uint64(f.Offset)
	contiguous := uint64(len(a.buf))

	if offset < contiguous {
		a.buf = a.buf[:offset]
		rewound = true
	} else if offset > contiguous {
		return DiscardGap
	}

	if f.BitsPerPixel != SupportedBitsPerPixel {
		return DiscardDepth
	}

	a.buf = append(a.buf, f.Data...)
	if rewound {
		return Rewound
	}

	return Appended
}

// Image returns the image trimmed to the expected size, or the contiguous bytes
// received so far if the image is not complete. The result aliases the Assembler buffer.
func (a *Assembler) Image() []byte {
	if len(a.buf) > a.size {
		return a.buf[:a.size:a.size]
	}

	return a.buf
}

// Reset drops all received data, keeping channel and size.
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
}
