package can

import "errors"

var (
	// ErrInvalidID indicates the identifier is out of range.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrInvalidLen indicates the data length exceeds 8.
	ErrInvalidLen = errors.New("invalid data length")
	// ErrShortFrame indicates an encoded frame is truncated.
	ErrShortFrame = errors.New("short frame")
	// ErrClosed indicates the bus is no longer usable.
	ErrClosed = errors.New("bus closed")
)
