package fatal

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/irq"
)

// SafeStateHook drives a peripheral into its safe configuration.
type SafeStateHook func(*Error)

// Halter is the Sink of the appliance. The first Halt wins: it masks every
// interrupt for good, runs the safe state hooks and marks the system halted.
type Halter struct {
	IRQ irq.Masker

	hooks  []SafeStateHook
	err    *Error
	halted chan struct{}
	lock   sync.Mutex
}

// NewHalter creates a Halter.
func NewHalter(m irq.Masker) *Halter {
	if m == nil {
		m = irq.CPU
	}
	return &Halter{IRQ: m, halted: make(chan struct{})}
}

// OnHalt registers safe state hooks, run in registration order.
func (h *Halter) OnHalt(hooks ...SafeStateHook) *Halter {
	h.lock.Lock()
	h.hooks = append(h.hooks, hooks...)
	h.lock.Unlock()
	return h
}

// Halt implements Sink.
func (h *Halter) Halt(err *Error) {
	if err == nil {
		err = at(2, CodeUnknown)
	}
	h.lock.Lock()
	if h.err != nil {
		h.lock.Unlock()
		glog.Errorf("already halted, dropped %v", err)
		return
	}
	h.err = err
	hooks := h.hooks
	h.lock.Unlock()

	glog.Errorf("HALT: %v", err)
	// interrupts stay masked until reset
	h.IRQ.Disable(irq.AllSources)
	for _, hook := range hooks {
		hook(err)
	}
	close(h.halted)
}

// Halted is closed once the system is halted.
func (h *Halter) Halted() <-chan struct{} {
	return h.halted
}

// Err returns the error which halted the system, nil if still running.
func (h *Halter) Err() *Error {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.err
}
