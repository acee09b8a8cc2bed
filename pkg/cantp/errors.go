package cantp

import "errors"

var (
	// ErrFrameType indicates a frame other than a single frame.
	ErrFrameType = errors.New("unsupported frame type")
	// ErrLength indicates the length nibble doesn't fit the frame.
	ErrLength = errors.New("invalid frame length")
)
