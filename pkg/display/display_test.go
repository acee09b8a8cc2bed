package display

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/board/sim"
	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/clock"
)

type staticSource struct {
	snap clock.Snapshot
}

func (s *staticSource) Snapshot() clock.Snapshot {
	return s.snap
}

func TestDisplayAlternates(t *testing.T) {
	lcd := sim.NewLCD(nil)
	src := &staticSource{snap: clock.Snapshot{
		Date:  calendar.DefaultDate,
		Time:  calendar.DefaultTime,
		Alarm: calendar.DefaultAlarm,
	}}
	d := New(lcd, src)
	d.Init()
	require.True(t, lcd.BacklightOn())

	d.Run()
	require.Equal(t, []string{"                ", "   23:59:50     "}, lcd.Lines())
	d.Run()
	require.Equal(t, []string{" JAN,31 2023 TU ", "   23:59:50     "}, lcd.Lines())

	src.snap.Time.Second = 51
	d.Run()
	require.Equal(t, "   23:59:51     ", lcd.Lines()[1])

	src.snap.AlarmActive = true
	d.Run()
	require.Equal(t, "  ALARM  20:00  ", lcd.Lines()[0])

	src.snap.AlarmActive = false
	d.Run()
	d.Run()
	require.Equal(t, " JAN,31 2023 TU ", lcd.Lines()[0])
}

func TestAlarmBanner(t *testing.T) {
	b := AlarmBanner(clock.Snapshot{Alarm: calendar.Alarm{Hour: 6, Minute: 5}})
	require.Equal(t, " ALARM  06:05 ", b)
	require.Len(t, b, len(calendar.DefaultDate.String()))
}
