// Package arg implements the SharkSEM argument codec: the four primitive argument
// kinds carried in command bodies and their little-endian, 4-byte aligned encodings.
//
// Argument Kinds:
//   - Int: signed 32-bit integer, 4 bytes little-endian two's complement.
//   - Uint: unsigned 32-bit integer, 4 bytes little-endian.
//   - Float: decimal ASCII text, sent as a length-prefixed NUL-padded string.
//     SharkSEM does not transfer IEEE-754 bit patterns.
//   - String: length-prefixed NUL-padded ASCII text.
//
// Variable-size values are prefixed by a 4-byte little-endian count of padded bytes,
// and the text is padded with NUL bytes to the next multiple of 4 (always at least one NUL).
//
// Usage Example:
//
//	body, err := arg.Encode(arg.Int(0), arg.Float(12.5))
//	// ... send body with a "SetCentering"-style command ...
//
//	values, err := arg.Decode(replyBody, arg.KindFloat, arg.KindFloat)
//	x, _ := values[0].ToFloat()
package arg
