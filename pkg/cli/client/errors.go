package client

import (
	"errors"
	"fmt"

	"github.com/robotalks/canclock/pkg/protocol"
)

// ErrNoReply indicates no reply arrived for a command.
var ErrNoReply = errors.New("no reply")

// CommandError is returned when the appliance rejected a command.
type CommandError struct {
	Result protocol.Result
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command rejected: %v", e.Result)
}
