package protocol

import "errors"

// ErrNotReply indicates a frame is not a reply of the clock.
var ErrNotReply = errors.New("not a reply")
