// Package clock implements the clock task: it applies commanded changes to
// the RTC, keeps the snapshot shown on the display and handles the alarm.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/board"
	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/irq"
	"github.com/robotalks/canclock/pkg/protocol"
	"github.com/robotalks/canclock/pkg/ring"
)

// RefreshInterval is the period of the snapshot refresh timer.
const RefreshInterval = time.Second

// AlarmRingTime is how long the alarm stays active unless dismissed.
const AlarmRingTime = 60 * time.Second

// Event is raised by an interrupt handler.
type Event uint8

// Events.
const (
	EventAlarm Event = iota + 1
	EventButton
)

// Snapshot is the last time, date and alarm read from the RTC.
type Snapshot struct {
	Date        calendar.Date
	Time        calendar.Time
	Alarm       calendar.Alarm
	AlarmActive bool
}

// Clock is the clock task.
type Clock struct {
	RTC    board.RTC
	Shared *protocol.State
	// Events is written by both the alarm and button interrupts, so every
	// access masks all sources.
	Events *ring.Queue[Event]

	snapshot   Snapshot
	startOfDay bool
	refresh    bool
	ringing    int
	dropped    uint32
}

// New creates the clock task.
func New(rtc board.RTC, shared *protocol.State, events *ring.Queue[Event]) *Clock {
	return &Clock{RTC: rtc, Shared: shared, Events: events}
}

// AlarmISR is the RTC alarm interrupt handler.
func (c *Clock) AlarmISR() {
	c.raise(EventAlarm)
}

// ButtonISR is the button interrupt handler.
func (c *Clock) ButtonISR() {
	c.raise(EventButton)
}

func (c *Clock) raise(ev Event) {
	if !c.Events.WriteISR(ev, irq.AllSources) {
		atomic.AddUint32(&c.dropped, 1)
	}
}

// Dropped returns the number of events lost on a full queue.
func (c *Clock) Dropped() uint32 {
	return atomic.LoadUint32(&c.dropped)
}

// Init implements framework.Task.
func (c *Clock) Init() {
	board.MustInit(c.RTC)
	c.Events.FlushISR(irq.AllSources)
	c.startOfDay = true
}

// Run implements framework.Task.
func (c *Clock) Run() {
	if c.startOfDay {
		c.startOfDay = false
		c.RTC.SetTime(calendar.DefaultTime)
		c.RTC.SetDate(calendar.DefaultDate)
		c.RTC.SetAlarm(calendar.DefaultAlarm)
		c.refresh = true
	}

	if changes := c.Shared.TakeChanges(); changes != 0 {
		if changes.Has(protocol.ChangedTime) {
			c.RTC.SetTime(c.Shared.Time)
		}
		if changes.Has(protocol.ChangedDate) {
			c.RTC.SetDate(c.Shared.Date)
		}
		if changes.Has(protocol.ChangedAlarm) {
			c.RTC.SetAlarm(c.Shared.Alarm)
		}
		glog.V(2).Infof("clock: applied changes 0x%x", changes)
		c.refresh = true
	}

	for {
		ev, ok := c.Events.ReadISR(irq.AllSources)
		if !ok {
			break
		}
		c.handle(ev)
	}

	if c.refresh {
		c.refresh = false
		c.snapshot.Date, c.snapshot.Time = c.RTC.Now()
		c.snapshot.Alarm = c.RTC.Alarm()
	}
}

func (c *Clock) handle(ev Event) {
	switch ev {
	case EventAlarm:
		glog.Infof("alarm %v", c.RTC.Alarm())
		c.snapshot.AlarmActive = true
		c.ringing = int(AlarmRingTime / RefreshInterval)
		c.refresh = true
	case EventButton:
		if c.snapshot.AlarmActive {
			glog.Info("alarm dismissed")
			c.silence()
		}
	}
}

func (c *Clock) silence() {
	c.snapshot.AlarmActive = false
	c.ringing = 0
	c.refresh = true
}

// Tick is the refresh timer callback.
func (c *Clock) Tick() {
	c.refresh = true
	if c.ringing > 0 {
		if c.ringing--; c.ringing == 0 {
			c.silence()
		}
	}
}

// Snapshot returns the values to display.
func (c *Clock) Snapshot() Snapshot {
	return c.snapshot
}
