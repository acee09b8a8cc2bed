package sim

import (
	"sync"

	"github.com/golang/glog"
)

// LED is a simulated output pin.
type LED struct {
	Name string

	on      bool
	toggles int
	lock    sync.Mutex
}

// Init implements board.Peripheral.
func (l *LED) Init() error {
	l.Set(false)
	return nil
}

// Set implements board.LED.
func (l *LED) Set(on bool) {
	l.lock.Lock()
	l.on = on
	l.lock.Unlock()
}

// Toggle implements board.LED.
func (l *LED) Toggle() {
	l.lock.Lock()
	l.on = !l.on
	l.toggles++
	on := l.on
	l.lock.Unlock()
	glog.V(3).Infof("led %s: %v", l.Name, on)
}

// On returns the pin state.
func (l *LED) On() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.on
}

// Toggles returns the number of toggles.
func (l *LED) Toggles() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.toggles
}
