// Package client sends commands to the appliance and collects the replies.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/protocol"
)

// DefaultTimeout is how long Send waits for a reply.
const DefaultTimeout = time.Second

// Result is the result of a command.
type Result struct {
	Err    error
	Result protocol.Result
}

// Client sends command frames on a Bus. Replies carry no sequence, they
// are matched to pending commands in the order the commands were sent.
type Client struct {
	Bus     can.Bus
	Timeout time.Duration

	cmdsHead *Command
	cmdsTail *Command
	cmdsLock sync.Mutex
}

// Command represents a pending command waiting for reply.
type Command struct {
	Frame    can.Frame
	resultCh chan Result
	next     *Command
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// New creates a Client sending on b. The Client must also receive the
// frames of the bus through HandleFrame.
func New(b can.Bus) *Client {
	return &Client{Bus: b, Timeout: DefaultTimeout}
}

// DoWith sends a command and expects a result in the provided chan.
func (c *Client) DoWith(f can.Frame, ch chan Result) *Command {
	cmd := &Command{Frame: f, resultCh: ch}

	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	if err := c.Bus.Transmit(f); err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	if c.cmdsHead == nil {
		c.cmdsHead = cmd
	} else {
		c.cmdsTail.next = cmd
	}
	c.cmdsTail = cmd
	return cmd
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(f can.Frame) *Command {
	return c.DoWith(f, make(chan Result, 1))
}

// Pending returns the number of commands waiting for reply.
func (c *Client) Pending() int {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var n int
	for cmd := c.cmdsHead; cmd != nil; cmd = cmd.next {
		n++
	}
	return n
}

// HandleFrame implements can.Handler, frames other than replies are ignored.
func (c *Client) HandleFrame(f can.Frame) {
	r, err := protocol.ParseReply(f)
	if err != nil {
		return
	}
	c.cmdsLock.Lock()
	cmd := c.cmdsHead
	if cmd != nil {
		if c.cmdsHead = cmd.next; c.cmdsHead == nil {
			c.cmdsTail = nil
		}
		cmd.next = nil
	}
	c.cmdsLock.Unlock()
	if cmd == nil {
		glog.V(2).Infof("unexpected reply %v", r)
		return
	}
	if r != protocol.ResultOk {
		cmd.resultCh <- Result{Err: &CommandError{Result: r}, Result: r}
		return
	}
	cmd.resultCh <- Result{Result: r}
}

// cancel removes cmd from the pending list.
func (c *Client) cancel(cmd *Command) bool {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var prev *Command
	for curr := c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr != cmd {
			continue
		}
		if prev == nil {
			c.cmdsHead = curr.next
		} else {
			prev.next = curr.next
		}
		if c.cmdsTail == curr {
			c.cmdsTail = prev
		}
		curr.next = nil
		return true
	}
	return false
}

// Send sends a command and waits for its reply.
func (c *Client) Send(ctx context.Context, f can.Frame) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := c.Do(f)
	select {
	case res := <-cmd.ResultChan():
		return res.Err
	case <-ctx.Done():
		if !c.cancel(cmd) {
			// the reply raced with the timeout
			return (<-cmd.ResultChan()).Err
		}
		if ctx.Err() == context.DeadlineExceeded {
			return ErrNoReply
		}
		return ctx.Err()
	}
}

// SetTime sets the time of the clock.
func (c *Client) SetTime(ctx context.Context, t calendar.Time) error {
	return c.Send(ctx, protocol.TimeCommand(t))
}

// SetDate sets the date of the clock.
func (c *Client) SetDate(ctx context.Context, d calendar.Date) error {
	return c.Send(ctx, protocol.DateCommand(d))
}

// SetAlarm sets the alarm of the clock.
func (c *Client) SetAlarm(ctx context.Context, a calendar.Alarm) error {
	return c.Send(ctx, protocol.AlarmCommand(a))
}
