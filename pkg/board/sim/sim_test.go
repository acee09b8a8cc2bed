package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/calendar"
)

type manualTime struct {
	ms uint32
}

func (t *manualTime) Millis() uint32         { return t.ms }
func (t *manualTime) Cycles() uint32         { return t.ms }
func (t *manualTime) CyclesPerMilli() uint32 { return 1 }
func (t *manualTime) Idle()                  { t.ms++ }

func (t *manualTime) advance(seconds int) {
	t.ms += uint32(seconds) * 1000
}

func TestRTCKeepsTime(t *testing.T) {
	tb := &manualTime{}
	r := NewRTC(tb)
	require.NoError(t, r.Init())

	d, tm := r.Now()
	require.Equal(t, calendar.DefaultDate, d)
	require.Equal(t, calendar.DefaultTime, tm)

	tb.advance(10)
	d, tm = r.Now()
	require.Equal(t, calendar.NewDate(1, calendar.February, 2023), d)
	require.Equal(t, calendar.Time{}, tm)

	r.SetTime(calendar.Time{Hour: 12, Minute: 30})
	tb.advance(61)
	d, tm = r.Now()
	require.Equal(t, calendar.NewDate(1, calendar.February, 2023), d)
	require.Equal(t, calendar.Time{Hour: 12, Minute: 31, Second: 1}, tm)

	r.SetDate(calendar.NewDate(29, calendar.February, 2024))
	d, tm = r.Now()
	require.Equal(t, calendar.Thursday, d.WeekDay)
	require.Equal(t, calendar.Time{Hour: 12, Minute: 31, Second: 1}, tm)

	require.Equal(t, ErrNoTimeBase, (&RTC{}).Init())
}

func TestRTCAlarm(t *testing.T) {
	tb := &manualTime{}
	r := NewRTC(tb)
	var fired int
	r.OnAlarm = func() { fired++ }
	require.NoError(t, r.Init())
	r.SetTime(calendar.Time{Hour: 6, Minute: 59, Second: 58})
	r.SetAlarm(calendar.Alarm{Hour: 7})

	tb.advance(1)
	r.Check()
	require.Zero(t, fired)
	tb.advance(1)
	r.Check()
	require.Equal(t, 1, fired)
	tb.advance(30)
	r.Check()
	require.Equal(t, 1, fired)

	// missed checks still fire
	r.SetTime(calendar.Time{Hour: 6, Minute: 59, Second: 30})
	tb.advance(45)
	r.Check()
	require.Equal(t, 2, fired)

	r.DeactivateAlarm()
	require.False(t, r.Armed())
	r.SetTime(calendar.Time{Hour: 6, Minute: 59, Second: 59})
	tb.advance(1)
	r.Check()
	require.Equal(t, 2, fired)
}

func TestLCD(t *testing.T) {
	var out bytes.Buffer
	l := NewLCD(&out)
	require.NoError(t, l.Init())
	require.True(t, l.BacklightOn())

	l.WriteString(1, 3, "23:59:50")
	l.WriteString(0, 1, "JAN,31 2023 TU")
	require.Equal(t, []string{" JAN,31 2023 TU ", "   23:59:50     "}, l.Lines())
	require.Equal(t, "[                |   23:59:50     ]\n[ JAN,31 2023 TU |   23:59:50     ]\n", out.String())

	out.Reset()
	l.WriteString(1, 3, "23:59:50")
	require.Empty(t, out.String())

	l.WriteString(0, 12, "ABCDEFGH")
	require.Equal(t, " JAN,31 2023ABCD", l.Lines()[0])
	l.WriteString(2, 0, "X")
	l.WriteString(0, -1, "X")

	l.Backlight(false)
	require.False(t, l.BacklightOn())
}

func TestLED(t *testing.T) {
	var l LED
	require.NoError(t, l.Init())
	l.Toggle()
	require.True(t, l.On())
	l.Toggle()
	require.False(t, l.On())
	require.Equal(t, 2, l.Toggles())
}

func TestWatchdog(t *testing.T) {
	tb := &manualTime{}
	w := NewWatchdog(tb)
	var reasons []string
	w.OnReset = func(reason string) { reasons = append(reasons, reason) }

	w.Check()
	require.Zero(t, w.Resets())
	require.NoError(t, w.Init())

	tb.ms += 250
	w.Refresh()
	w.Check()
	require.Empty(t, reasons)

	tb.ms += 100
	w.Refresh()
	require.Equal(t, []string{"early refresh"}, reasons)

	tb.ms += 400
	w.Check()
	require.Equal(t, []string{"early refresh", "timeout"}, reasons)
	require.Equal(t, 2, w.Resets())

	w.Stop()
	tb.ms += 1000
	w.Check()
	w.Refresh()
	require.Equal(t, 2, w.Resets())
}

func TestButton(t *testing.T) {
	var presses int
	b := Button{In: bytes.NewBufferString("\n\n\n"), OnPress: func() { presses++ }}
	require.NoError(t, b.Run(testContext(t)))
	require.Equal(t, 3, presses)
}
