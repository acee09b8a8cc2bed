package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/framework"
)

// maxAlarmScan bounds the seconds scanned for a missed alarm in one check.
const maxAlarmScan = 120

// RTC is a real-time clock driven by a TimeBase.
type RTC struct {
	Time framework.TimeBase
	// OnAlarm is the alarm interrupt handler.
	OnAlarm func()
	// CheckInterval is the polling interval of Run.
	CheckInterval time.Duration

	base    time.Time
	baseMs  uint32
	checked time.Time
	alarm   calendar.Alarm
	armed   bool
	lock    sync.Mutex
}

// NewRTC creates an RTC.
func NewRTC(tb framework.TimeBase) *RTC {
	return &RTC{Time: tb, CheckInterval: 100 * time.Millisecond}
}

// Init implements board.Peripheral.
func (r *RTC) Init() error {
	if r.Time == nil {
		return ErrNoTimeBase
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.rebase(calendar.Join(calendar.DefaultDate, calendar.DefaultTime))
	r.alarm = calendar.DefaultAlarm
	return nil
}

func (r *RTC) now() time.Time {
	return r.base.Add(time.Duration(r.Time.Millis()-r.baseMs) * time.Millisecond)
}

func (r *RTC) rebase(ts time.Time) {
	r.base, r.baseMs = ts, r.Time.Millis()
	r.checked = ts
}

// Now implements board.RTC.
func (r *RTC) Now() (calendar.Date, calendar.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return calendar.Split(r.now())
}

// SetTime implements board.RTC.
func (r *RTC) SetTime(t calendar.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	d, _ := calendar.Split(r.now())
	r.rebase(calendar.Join(d, t))
}

// SetDate implements board.RTC.
func (r *RTC) SetDate(d calendar.Date) {
	r.lock.Lock()
	defer r.lock.Unlock()
	_, t := calendar.Split(r.now())
	r.rebase(calendar.Join(d, t))
}

// Alarm implements board.RTC.
func (r *RTC) Alarm() calendar.Alarm {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.alarm
}

// SetAlarm implements board.RTC. It arms the alarm.
func (r *RTC) SetAlarm(a calendar.Alarm) {
	r.lock.Lock()
	r.alarm, r.armed = a, true
	r.lock.Unlock()
}

// DeactivateAlarm implements board.RTC.
func (r *RTC) DeactivateAlarm() {
	r.lock.Lock()
	r.armed = false
	r.lock.Unlock()
}

// Armed checks if the alarm is armed.
func (r *RTC) Armed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.armed
}

// Check raises the alarm interrupt if the alarm time passed since the
// previous check.
func (r *RTC) Check() {
	r.lock.Lock()
	now := r.now()
	var fire bool
	if r.armed {
		ts := r.checked.Truncate(time.Second).Add(time.Second)
		for n := 0; !ts.After(now) && n < maxAlarmScan; n++ {
			if _, t := calendar.Split(ts); r.alarm.Matches(t) {
				fire = true
				break
			}
			ts = ts.Add(time.Second)
		}
	}
	r.checked = now
	r.lock.Unlock()

	if fire && r.OnAlarm != nil {
		glog.V(2).Info("rtc: alarm")
		r.OnAlarm()
	}
}

// Run polls the alarm until ctx is done.
func (r *RTC) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Check()
		}
	}
}
