package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/fatal"
)

type fakePeripheral struct {
	initErr error
	inits   int
}

func (p *fakePeripheral) Init() error {
	p.inits++
	return p.initErr
}

type fakeLED struct {
	fakePeripheral
	on      bool
	toggles int
}

func (l *fakeLED) Set(on bool) { l.on = on }
func (l *fakeLED) Toggle()     { l.on, l.toggles = !l.on, l.toggles+1 }

type fakeRTC struct {
	fakePeripheral
	armed bool
}

func (r *fakeRTC) Now() (calendar.Date, calendar.Time) { return calendar.DefaultDate, calendar.DefaultTime }
func (r *fakeRTC) SetTime(calendar.Time)               {}
func (r *fakeRTC) SetDate(calendar.Date)               {}
func (r *fakeRTC) Alarm() calendar.Alarm               { return calendar.DefaultAlarm }
func (r *fakeRTC) SetAlarm(calendar.Alarm)             { r.armed = true }
func (r *fakeRTC) DeactivateAlarm()                    { r.armed = false }

type fakeLCD struct {
	fakePeripheral
	backlight bool
}

func (l *fakeLCD) WriteString(row, col int, s string) {}
func (l *fakeLCD) Backlight(on bool)                  { l.backlight = on }

type fakeWatchdog struct {
	fakePeripheral
	refreshes int
	stopped   bool
}

func (w *fakeWatchdog) Refresh() { w.refreshes++ }
func (w *fakeWatchdog) Stop()    { w.stopped = true }

func TestMustInit(t *testing.T) {
	p := &fakePeripheral{}
	MustInit(p)
	require.Equal(t, 1, p.inits)

	p.initErr = errors.New("no device")
	defer func() {
		err, ok := recover().(*fatal.Error)
		require.True(t, ok)
		require.Equal(t, fatal.CodePeripheralInit, err.Code)
	}()
	MustInit(p)
	t.Fatal("not raised")
}

func TestHeartbeat(t *testing.T) {
	led := &fakeLED{}
	h := &Heartbeat{LED: led}
	h.Init()
	require.Equal(t, 1, led.inits)
	for i := 0; i < 3; i++ {
		h.Run()
	}
	require.Equal(t, 3, led.toggles)
	require.True(t, led.on)
}

func TestWatchdogRefresh(t *testing.T) {
	wd := &fakeWatchdog{}
	w := &WatchdogRefresh{Watchdog: wd}
	w.Init()
	w.Run()
	w.Run()
	require.Equal(t, 1, wd.inits)
	require.Equal(t, 2, wd.refreshes)
}

func TestSafeState(t *testing.T) {
	rtc := &fakeRTC{armed: true}
	lcd := &fakeLCD{backlight: true}
	leds := []LED{&fakeLED{on: true}, &fakeLED{on: true}}
	wd := &fakeWatchdog{}

	hook := SafeState(rtc, lcd, leds, wd, "not a stopper")
	hook(fatal.At(fatal.CodeHardFault))

	require.False(t, rtc.armed)
	require.False(t, lcd.backlight)
	for _, led := range leds {
		require.False(t, led.(*fakeLED).on)
	}
	require.True(t, wd.stopped)

	// missing peripherals are skipped
	SafeState(nil, nil, nil)(nil)
}
