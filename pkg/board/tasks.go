package board

import "github.com/golang/glog"

// Heartbeat blinks an LED while the scheduler runs.
type Heartbeat struct {
	LED LED
}

// Init implements framework.Task.
func (h *Heartbeat) Init() {
	MustInit(h.LED)
}

// Run implements framework.Task.
func (h *Heartbeat) Run() {
	h.LED.Toggle()
}

// WatchdogRefresh keeps the watchdog from resetting the system.
type WatchdogRefresh struct {
	Watchdog Watchdog
}

// Init implements framework.Task.
func (w *WatchdogRefresh) Init() {
	MustInit(w.Watchdog)
	glog.Info("watchdog started")
}

// Run implements framework.Task.
func (w *WatchdogRefresh) Run() {
	w.Watchdog.Refresh()
}
