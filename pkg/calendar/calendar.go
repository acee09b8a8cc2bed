// Package calendar holds the clock's time, date and alarm values and the
// rules validating them.
//
// Fields are plain binary magnitudes: hour 23 is 23 (0x17), not 0x23.
package calendar

import (
	"fmt"
	"time"
)

// Year range accepted by the appliance. Within it every year divisible by 4
// is a leap year.
const (
	MinYear = 1901
	MaxYear = 2099
)

// Month is the month of year, January is 1.
type Month uint8

// Months.
const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// String implements fmt.Stringer.
func (m Month) String() string {
	if m < January || m > December {
		return "???"
	}
	return monthNames[m-1]
}

// Weekday is the day of week, Monday is 1 and Sunday is 7.
type Weekday uint8

// Weekdays.
const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// String implements fmt.Stringer.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "??"
	}
	return weekdayNames[d-1]
}

// Time is the time of day.
type Time struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// Valid checks the field ranges.
func (t Time) Valid() bool {
	return t.Hour <= 23 && t.Minute <= 59 && t.Second <= 59
}

// String formats as HH:MM:SS.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Alarm is the time of day the alarm goes off.
type Alarm struct {
	Hour   uint8
	Minute uint8
}

// Valid checks the field ranges.
func (a Alarm) Valid() bool {
	return a.Hour <= 23 && a.Minute <= 59
}

// String formats as HH:MM.
func (a Alarm) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Matches checks if the alarm goes off at t.
func (a Alarm) Matches(t Time) bool {
	return t.Hour == a.Hour && t.Minute == a.Minute && t.Second == 0
}

// Date is a calendar date. WeekDay is derived, see WeekDayOf.
type Date struct {
	Day     uint8
	Month   Month
	Year    uint16
	WeekDay Weekday
}

// Valid checks field ranges and the length of the month. WeekDay is not
// checked.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < January || d.Month > December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysIn(d.Month, d.Year)
}

// String formats as MMM,DD YYYY WD.
func (d Date) String() string {
	return fmt.Sprintf("%s,%02d %04d %s", d.Month, d.Day, d.Year, d.WeekDay)
}

// IsLeap reports whether year is a leap year in the supported range.
func IsLeap(year uint16) bool {
	return year%4 == 0
}

// DaysIn returns the number of days of month in year, 0 for an invalid month.
func DaysIn(month Month, year uint16) uint8 {
	switch month {
	case February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case April, June, September, November:
		return 30
	case January, March, May, July, August, October, December:
		return 31
	}
	return 0
}

// Zeller's congruence yields 0 for Saturday.
var zellerWeekdays = [7]Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

// WeekDayOf computes the day of week of a valid date.
func WeekDayOf(day uint8, month Month, year uint16) Weekday {
	m, y := int(month), int(year)
	if m < 3 {
		m += 12
		y--
	}
	k, j := y%100, y/100
	h := (int(day) + 13*(m+1)/5 + k + k/4 + j/4 + 5*j) % 7
	return zellerWeekdays[h]
}

// NewDate builds a date with its weekday filled in. It doesn't validate.
func NewDate(day uint8, month Month, year uint16) Date {
	return Date{Day: day, Month: month, Year: year, WeekDay: WeekDayOf(day, month, year)}
}

// Defaults applied at start-of-day.
var (
	DefaultTime  = Time{Hour: 23, Minute: 59, Second: 50}
	DefaultDate  = Date{Day: 31, Month: January, Year: 2023, WeekDay: Tuesday}
	DefaultAlarm = Alarm{Hour: 20, Minute: 0}
)

// Join combines a date and a time of day into a time.Time in UTC.
func Join(d Date, t Time) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// Split breaks a time.Time into date and time of day.
func Split(ts time.Time) (Date, Time) {
	y, m, d := ts.Date()
	return NewDate(uint8(d), Month(m), uint16(y)),
		Time{Hour: uint8(ts.Hour()), Minute: uint8(ts.Minute()), Second: uint8(ts.Second())}
}
