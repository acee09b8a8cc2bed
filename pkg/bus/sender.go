package bus

import (
	"context"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/can"
)

// DefaultSenderDepth is the transmit queue depth of NewSender when 0 is given.
const DefaultSenderDepth = 16

// Sender decouples task context from a Bus which may block (a broker round
// trip, a socket write). Transmit only queues the frame, Run sends it.
type Sender struct {
	Bus can.Bus

	frames  chan can.Frame
	dropped uint64
	failed  uint64
}

// NewSender creates a Sender queueing up to depth frames.
func NewSender(b can.Bus, depth int) *Sender {
	if depth <= 0 {
		depth = DefaultSenderDepth
	}
	return &Sender{Bus: b, frames: make(chan can.Frame, depth)}
}

// Transmit implements can.Bus. It never blocks.
func (s *Sender) Transmit(f can.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	select {
	case s.frames <- f:
		return nil
	default:
		atomic.AddUint64(&s.dropped, 1)
		return ErrTxOverflow
	}
}

// Dropped returns the number of frames rejected on a full queue.
func (s *Sender) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

// Failed returns the number of frames the underlying Bus failed to send.
func (s *Sender) Failed() uint64 {
	return atomic.LoadUint64(&s.failed)
}

// Run implements framework.Runnable.
func (s *Sender) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-s.frames:
			if err := s.Bus.Transmit(f); err != nil {
				atomic.AddUint64(&s.failed, 1)
				glog.Warningf("transmit %v: %v", f, err)
			}
		}
	}
}
