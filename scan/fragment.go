package scan

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// FragmentName is the message name of image fragments.
	FragmentName = "ScData"
	// CameraFrameName is the message name of camera frames.
	CameraFrameName = "CameraData"

	// FragmentHeaderSize is the size of the fixed header of fragment and camera frame bodies.
	FragmentHeaderSize = 20

	// SupportedBitsPerPixel is the only pixel depth accepted by the reassembly.
	SupportedBitsPerPixel = 8
)

// Fragment is a decoded "ScData" body: part of the image of one channel.
type Fragment struct {
	FrameID      uint32
	Channel      uint32
	Offset       uint32
	BitsPerPixel uint32
	// Data holds the payload, its length is the payload length of the message.
	Data []byte
}

// ParseFragment decodes a fragment body:
//
//	frame(u32) | channel(u32) | offset(u32) | bpp(u32) | payload_len(u32) | payload
//
// Bytes after payload_len bytes of payload are ignored. The returned Data aliases body.
func ParseFragment(body []byte) (Fragment, error) {
	if len(body) < FragmentHeaderSize {
		return Fragment{}, fmt.Errorf("%w: body has %d bytes, header needs %d", ErrMalformedFragment, len(body), FragmentHeaderSize)
	}

	f := Fragment{
		FrameID:      binary.LittleEndian.Uint32(body[0:4]),
		Channel:      binary.LittleEndian.Uint32(body[4:8]),
		Offset:       binary.LittleEndian.Uint32(body[8:12]),
		BitsPerPixel: binary.LittleEndian.Uint32(body[12:16]),
	}

	data, err := payload(body)
	if err != nil {
		return Fragment{}, err
	}
	f.Data = data

	return f, nil
}

// MarshalBinary encodes the fragment as an "ScData" body.
func (f Fragment) MarshalBinary() ([]byte, error) {
	return marshal([4]uint32{f.FrameID, f.Channel, f.Offset, f.BitsPerPixel}, f.Data)
}

// CameraFrame is a decoded "CameraData" body: one complete camera image.
type CameraFrame struct {
	Channel      uint32
	BitsPerPixel uint32
	Width        uint32
	Height       uint32
	Data         []byte
}

// ParseCameraFrame decodes a camera frame body:
//
//	channel(u32) | bpp(u32) | width(u32) | height(u32) | payload_len(u32) | payload
func ParseCameraFrame(body []byte) (CameraFrame, error) {
	if len(body) < FragmentHeaderSize {
		return CameraFrame{}, fmt.Errorf("%w: body has %d bytes, header needs %d", ErrMalformedFragment, len(body), FragmentHeaderSize)
	}

	c := CameraFrame{
		Channel:      binary.LittleEndian.Uint32(body[0:4]),
		BitsPerPixel: binary.LittleEndian.Uint32(body[4:8]),
		Width:        binary.LittleEndian.Uint32(body[8:12]),
		Height:       binary.LittleEndian.Uint32(body[12:16]),
	}

	data, err := payload(body)
	if err != nil {
		return CameraFrame{}, err
	}
	c.Data = data

	return c, nil
}

// MarshalBinary encodes the frame as a "CameraData" body.
func (c CameraFrame) MarshalBinary() ([]byte, error) {
	return marshal([4]uint32{c.Channel, c.BitsPerPixel, c.Width, c.Height}, c.Data)
}

func payload(body []byte) ([]byte, error) {
	n := binary.LittleEndian.Uint32(body[16:20])
	rest := body[FragmentHeaderSize:]
	if uint64(n) > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: payload length %d, body has %d bytes", ErrMalformedFragment, n, len(rest))
	}

	return rest[:n:n], nil
}

func marshal(fields [4]uint32, data []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32-FragmentHeaderSize {
		return nil, fmt.Errorf("payload of %d bytes is too large", len(data))
	}

	buf := make([]byte, FragmentHeaderSize, FragmentHeaderSize+len(data))
	for i, v := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(data))) //nolint:gosec

	return append(buf, data...), nil
}
