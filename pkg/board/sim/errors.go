package sim

import "errors"

// ErrNoTimeBase indicates a peripheral is missing its time base.
var ErrNoTimeBase = errors.New("no time base")
