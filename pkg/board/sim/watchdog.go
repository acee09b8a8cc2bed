package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/framework"
)

// Window watchdog limits.
const (
	DefaultWatchdogMin = 196 * time.Millisecond
	DefaultWatchdogMax = 311 * time.Millisecond
)

// Watchdog is a window watchdog: a refresh earlier than Min or no refresh
// within Max resets the system.
type Watchdog struct {
	Time     framework.TimeBase
	Min, Max time.Duration
	// OnReset is called instead of resetting the host.
	OnReset func(reason string)

	last    uint32
	running bool
	resets  int
	lock    sync.Mutex
}

// NewWatchdog creates a Watchdog with the default window.
func NewWatchdog(tb framework.TimeBase) *Watchdog {
	return &Watchdog{Time: tb, Min: DefaultWatchdogMin, Max: DefaultWatchdogMax}
}

// Init implements board.Peripheral. It starts the watchdog.
func (w *Watchdog) Init() error {
	if w.Time == nil {
		return ErrNoTimeBase
	}
	w.lock.Lock()
	w.last, w.running = w.Time.Millis(), true
	w.lock.Unlock()
	return nil
}

func (w *Watchdog) elapsed() time.Duration {
	return time.Duration(w.Time.Millis()-w.last) * time.Millisecond
}

// Refresh implements board.Watchdog.
func (w *Watchdog) Refresh() {
	w.lock.Lock()
	if !w.running {
		w.lock.Unlock()
		return
	}
	early := w.elapsed() < w.Min
	w.last = w.Time.Millis()
	w.lock.Unlock()
	if early {
		w.reset("early refresh")
	}
}

// Check resets the system if the watchdog expired.
func (w *Watchdog) Check() {
	w.lock.Lock()
	expired := w.running && w.elapsed() > w.Max
	if expired {
		w.last = w.Time.Millis()
	}
	w.lock.Unlock()
	if expired {
		w.reset("timeout")
	}
}

// Stop implements board.Stopper.
func (w *Watchdog) Stop() {
	w.lock.Lock()
	w.running = false
	w.lock.Unlock()
}

// Resets returns the number of resets.
func (w *Watchdog) Resets() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.resets
}

func (w *Watchdog) reset(reason string) {
	w.lock.Lock()
	w.resets++
	w.lock.Unlock()
	glog.Errorf("watchdog reset: %s", reason)
	if w.OnReset != nil {
		w.OnReset(reason)
	}
}

// Run checks expiry until ctx is done.
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Max / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Check()
		}
	}
}
