package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// TrimNull returns the prefix of b before the first NUL byte.
// The whole slice is returned when b contains no NUL.
func TrimNull(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}

	return b
}

// PadLen returns the NUL-padded length used by SharkSEM variable-size fields.
//
// The result is the next multiple of 4 strictly greater than n, so every
// padded field carries at least one terminating NUL.
func PadLen(n int) int {
	return (n + 4) &^ 3
}
