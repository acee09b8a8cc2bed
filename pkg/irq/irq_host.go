//go:build !tinygo

package irq

import "sync"

// State records what Disable masked.
type State struct {
	src Source
}

// Controller emulates an interrupt controller on a hosted OS. Interrupt
// handlers run in their own goroutines and use the same Disable/Restore pairs
// as task context, so a masked section excludes the handler for that source.
// Masking all sources excludes every handler. Sections are not reentrant.
type Controller struct {
	all   sync.RWMutex
	lines [NumSources]sync.Mutex
}

// NewController creates a Controller.
func NewController() *Controller {
	return &Controller{}
}

// Disable implements Masker.
func (c *Controller) Disable(src Source) State {
	if src == AllSources {
		c.all.Lock()
		return State{src: src}
	}
	c.all.RLock()
	c.lines[int(src)%NumSources].Lock()
	return State{src: src}
}

// Restore implements Masker.
func (c *Controller) Restore(s State) {
	if s.src == AllSources {
		c.all.Unlock()
		return
	}
	c.lines[int(s.src)%NumSources].Unlock()
	c.all.RUnlock()
}
