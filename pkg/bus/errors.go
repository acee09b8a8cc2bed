package bus

import "errors"

// ErrTxOverflow indicates the transmit queue of a Sender is full.
var ErrTxOverflow = errors.New("transmit queue overflow")
