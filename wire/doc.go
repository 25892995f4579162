// Package wire implements the SharkSEM message framing.
//
// Every message on the control and data channels starts with a fixed 32-byte header:
//
//	offset  size  field
//	     0    16  function name, ASCII, NUL-padded
//	    16     4  body length (u32 LE)
//	    20     4  flags, reserved (u32 LE)
//	    24     2  wait flags << 8 (u16 LE), only the high byte is meaningful
//	    26     2  reserved (u16 LE)
//	    28     4  reserved (u32 LE)
//
// The header is followed by exactly body-length bytes of body.
//
// Reader reads one complete message at a time with blocking full reads, and WriteMessage
// writes header and body in full. A peer closing the connection in the middle of a message
// surfaces as ErrConnClosed.
package wire
