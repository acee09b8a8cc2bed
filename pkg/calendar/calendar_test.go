package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeValid(t *testing.T) {
	require.True(t, Time{}.Valid())
	require.True(t, Time{23, 59, 59}.Valid())
	require.False(t, Time{24, 0, 0}.Valid())
	require.False(t, Time{0, 60, 0}.Valid())
	require.False(t, Time{0, 0, 60}.Valid())
	require.True(t, Alarm{23, 59}.Valid())
	require.False(t, Alarm{24, 0}.Valid())
	require.False(t, Alarm{0, 60}.Valid())
}

func TestDateValid(t *testing.T) {
	testCases := []struct {
		day   uint8
		month Month
		year  uint16
		valid bool
	}{
		{29, February, 2024, true},
		{29, February, 2023, false},
		{28, February, 2023, true},
		{30, February, 2024, false},
		{1, 13, 2023, false},
		{1, 0, 2023, false},
		{31, April, 2023, false},
		{30, April, 2023, true},
		{31, June, 2023, false},
		{31, September, 2023, false},
		{31, November, 2023, false},
		{31, December, 2023, true},
		{31, January, 2023, true},
		{0, January, 2023, false},
		{32, January, 2023, false},
		{1, January, 1900, false},
		{1, January, 1901, true},
		{31, December, 2099, true},
		{1, January, 2100, false},
	}
	for _, tc := range testCases {
		d := Date{Day: tc.day, Month: tc.month, Year: tc.year}
		require.Equal(t, tc.valid, d.Valid(), "%d-%d-%d", tc.year, tc.month, tc.day)
	}
}

func TestWeekDayOf(t *testing.T) {
	require.Equal(t, Tuesday, WeekDayOf(31, January, 2023))
	require.Equal(t, DefaultDate, NewDate(31, January, 2023))
	require.Equal(t, Thursday, WeekDayOf(29, February, 2024))
	require.Equal(t, Saturday, WeekDayOf(1, January, 2000))
	require.Equal(t, Tuesday, WeekDayOf(1, January, 1901))
	require.Equal(t, Thursday, WeekDayOf(31, December, 2099))

	// agrees with the standard library over the whole range
	for ts := time.Date(MinYear, 1, 1, 0, 0, 0, 0, time.UTC); ts.Year() <= MaxYear; ts = ts.AddDate(0, 0, 13) {
		expect := Weekday(ts.Weekday())
		if expect == 0 {
			expect = Sunday
		}
		require.Equal(t, expect, WeekDayOf(uint8(ts.Day()), Month(ts.Month()), uint16(ts.Year())), ts.String())
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "23:59:50", DefaultTime.String())
	require.Equal(t, "JAN,31 2023 TU", DefaultDate.String())
	require.Equal(t, "20:00", DefaultAlarm.String())
	require.Equal(t, "SEP,05 1999 SU", NewDate(5, September, 1999).String())
	require.Equal(t, "???", Month(13).String())
	require.Equal(t, "??", Weekday(0).String())
}

func TestJoinSplit(t *testing.T) {
	ts := Join(DefaultDate, DefaultTime)
	require.Equal(t, time.Date(2023, 1, 31, 23, 59, 50, 0, time.UTC), ts)
	d, tm := Split(ts.Add(10 * time.Second))
	require.Equal(t, NewDate(1, February, 2023), d)
	require.Equal(t, Wednesday, d.WeekDay)
	require.Equal(t, Time{}, tm)
}

func TestAlarmMatches(t *testing.T) {
	require.True(t, DefaultAlarm.Matches(Time{20, 0, 0}))
	require.False(t, DefaultAlarm.Matches(Time{20, 0, 1}))
	require.False(t, DefaultAlarm.Matches(Time{19, 0, 0}))
}
