package scan

import (
	"context"
	"fmt"

	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/wire"
)

// MessageReader reads complete data-channel messages. *wire.Reader implements it.
type MessageReader interface {
	ReadMessage() (*wire.Message, error)
}

// Event describes one data-channel message handled by a read loop.
type Event struct {
	// Name is the message name.
	Name string
	// Verdict is what the read loop did with the message.
	Verdict Verdict
	// Channel is the acquisition channel of the fragment or frame, zero for foreign and malformed messages.
	Channel uint32
	// Offset is the fragment offset, zero for camera frames.
	Offset uint32
	// Size is the payload length.
	Size int
	// Contiguous is the contiguous image length after the message was handled.
	Contiguous int
}

// Observer is called for every message handled by ReadImage and ReadCameraFrame.
type Observer func(Event)

type readOptions struct {
	observer Observer
	logger   logger.Logger
}

// Option configures ReadImage and ReadCameraFrame.
type Option func(*readOptions)

// WithObserver registers an observer for every handled message.
func WithObserver(observer Observer) Option {
	return func(o *readOptions) {
		o.observer = observer
	}
}

// WithLogger sets the logger used for discarded messages, logged at debug level.
func WithLogger(l logger.Logger) Option {
	return func(o *readOptions) {
		o.logger = l
	}
}

func newReadOptions(opts []Option) *readOptions {
	o := &readOptions{logger: logger.GetLogger()}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *readOptions) emit(ev Event) {
	if ev.Verdict.Discarded() && o.logger != nil {
		o.logger.Debug("data message discarded",
			"name", ev.Name,
			"verdict", ev.Verdict.String(),
			"channel", ev.Channel,
			"offset", ev.Offset,
			"size", ev.Size,
		)
	}

	if o.observer != nil {
		o.observer(ev)
	}
}

// ReadImage reads fragments from r until size contiguous bytes of the given channel
// have been received, and returns exactly size bytes.
//
// Messages other than "ScData", malformed bodies and fragments rejected by the Assembler
// are skipped. There is no limit on the number of skipped messages; the loop ends only when
// the image is complete, r fails, or ctx is done. A failure returns an error wrapping both
// ErrIncompleteImage and the cause, e.g. wire.ErrConnClosed.
//
// ctx is checked between messages; a blocked read is interrupted only by the reader itself,
// for example through a connection deadline.
func ReadImage(ctx context.Context, r MessageReader, channel uint32, size int, opts ...Option) ([]byte, error) {
	if size <= 0 {
		return []byte{}, nil
	}

	o := newReadOptions(opts)
	asm := NewAssembler(channel, size)

	for !asm.Done() {
		if err := ctx.Err(); err != nil {
			return nil, incomplete(asm, err)
		}

		msg, err := r.ReadMessage()
		if err != nil {
			return nil, incomplete(asm, err)
		}

		ev := Event{Name: msg.Name}
		if msg.Name != FragmentName {
			ev.Verdict = DiscardForeign
			ev.Size = len(msg.Body)
			ev.Contiguous = asm.Len()
			o.emit(ev)

			continue
		}

		frag, err := ParseFragment(msg.Body)
		if err != nil {
			ev.Verdict = DiscardMalformed
			ev.Size = len(msg.Body)
			ev.Contiguous = asm.Len()
			o.emit(ev)

			continue
		}

		ev.Verdict = asm.Add(frag)
		ev.Channel = frag.Channel
		ev.Offset = frag.Offset
		ev.Size = len(frag.Data)
		ev.Contiguous = asm.Len()
		o.emit(ev)
	}

	return asm.Image(), nil
}

// ReadCameraFrame reads messages from r until a "CameraData" frame of the given channel
// with 8-bit pixels arrives, and returns it.
//
// The discard policy of ReadImage applies to other messages.
func ReadCameraFrame(ctx context.Context, r MessageReader, channel uint32, opts ...Option) (*CameraFrame, error) {
	o := newReadOptions(opts)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: camera frame: %w", ErrIncompleteImage, err)
		}

		msg, err := r.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("%w: camera frame: %w", ErrIncompleteImage, err)
		}

		ev := Event{Name: msg.Name, Size: len(msg.Body)}
		if msg.Name != CameraFrameName {
			ev.Verdict = DiscardForeign
			o.emit(ev)

			continue
		}

		frame, err := ParseCameraFrame(msg.Body)
		if err != nil {
			ev.Verdict = DiscardMalformed
			o.emit(ev)

			continue
		}

		ev.Channel = frame.Channel
		ev.Size = len(frame.Data)

		switch {
		case frame.Channel != channel:
			ev.Verdict = DiscardChannel
		case frame.BitsPerPixel != SupportedBitsPerPixel:
			ev.Verdict = DiscardDepth
		default:
			ev.Verdict = Accepted
			ev.Contiguous = len(frame.Data)
		}
		o.emit(ev)

		if ev.Verdict == Accepted {
			return &frame, nil
		}
	}
}

func incomplete(asm *Assembler, err error) error {
	return fmt.Errorf("%w: %d of %d bytes on channel %d: %w", ErrIncompleteImage, asm.Len(), asm.Size(), asm.Channel(), err)
}
