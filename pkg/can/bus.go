package can

import "sync"

// Bus transmits frames. Transmit must not block the caller for long: it is
// called from task context.
type Bus interface {
	Transmit(Frame) error
}

// Handler receives frames from a bus. On the appliance it is the bus-receive
// interrupt body.
type Handler interface {
	HandleFrame(Frame)
}

// HandleFrameFunc is func form of Handler.
type HandleFrameFunc func(Frame)

// HandleFrame implements Handler.
func (f HandleFrameFunc) HandleFrame(fr Frame) {
	f(fr)
}

// BusFunc is func form of Bus.
type BusFunc func(Frame) error

// Transmit implements Bus.
func (f BusFunc) Transmit(fr Frame) error {
	return f(fr)
}

// Loopback is an in-process bus. Every transmitted frame is delivered to
// all attached handlers, including the sender's.
type Loopback struct {
	handlers []Handler
	lock     sync.RWMutex
}

// Attach adds a handler.
func (b *Loopback) Attach(h Handler) {
	b.lock.Lock()
	b.handlers = append(b.handlers, h)
	b.lock.Unlock()
}

// Transmit implements Bus.
func (b *Loopback) Transmit(fr Frame) error {
	if err := fr.Validate(); err != nil {
		return err
	}
	b.lock.RLock()
	handlers := b.handlers
	b.lock.RUnlock()
	for _, h := range handlers {
		h.HandleFrame(fr)
	}
	return nil
}

// Tee is a Bus transmitting to every Bus in it. All of them are tried, the
// first error is returned.
type Tee []Bus

// Transmit implements Bus.
func (t Tee) Transmit(fr Frame) error {
	var first error
	for _, b := range t {
		if err := b.Transmit(fr); err != nil && first == nil {
			first = err
		}
	}
	return first
}
