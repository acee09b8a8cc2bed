//go:build tinygo

package irq

import "runtime/interrupt"

// State records the interrupt state before Disable.
type State struct {
	prev interrupt.State
}

// Controller masks interrupts on the target. Individual sources are masked
// by disabling all interrupts for the section.
type Controller struct{}

// NewController creates a Controller.
func NewController() *Controller {
	return &Controller{}
}

// Disable implements Masker.
func (c *Controller) Disable(src Source) State {
	return State{prev: interrupt.Disable()}
}

// Restore implements Masker.
func (c *Controller) Restore(s State) {
	interrupt.Restore(s.prev)
}
