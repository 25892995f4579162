package scan

import "errors"

var (
	// ErrMalformedFragment indicates a data message body that does not hold a complete fragment.
	ErrMalformedFragment = errors.New("malformed fragment")

	// ErrIncompleteImage indicates that the read loop stopped before the image was complete.
	ErrIncompleteImage = errors.New("incomplete image")
)
