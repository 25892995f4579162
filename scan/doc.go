// Package scan reassembles images streamed on the SharkSEM data channel.
//
// During a scan the instrument sends "ScData" messages, each carrying a fragment of the
// image of one acquisition channel at a byte offset. Fragments of other channels and
// unrelated messages are interleaved on the same connection, and the instrument may
// re-send data it already delivered. The Assembler implements the acceptance policy:
//
//   - a fragment for another channel is discarded;
//   - a fragment starting before the contiguous length rewinds the image to its offset;
//   - a fragment starting after the contiguous length leaves a gap and is discarded;
//   - a fragment with a pixel depth other than 8 bits is discarded;
//   - otherwise the payload is appended.
//
// The image therefore never contains a gap. ReadImage drives an Assembler from a message
// reader until the expected number of bytes is contiguous.
//
// Camera frames ("CameraData") are single-shot: ReadCameraFrame waits for one matching
// 8-bit frame and returns it as is.
package scan
