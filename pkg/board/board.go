// Package board declares the peripherals the appliance drives and the
// housekeeping tasks around them.
package board

import (
	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/fatal"
)

// Peripheral is initialized once at start-of-day.
type Peripheral interface {
	Init() error
}

// RTC is the real-time clock with one daily alarm.
type RTC interface {
	Peripheral
	Now() (calendar.Date, calendar.Time)
	SetTime(calendar.Time)
	SetDate(calendar.Date)
	Alarm() calendar.Alarm
	SetAlarm(calendar.Alarm)
	DeactivateAlarm()
}

// LCD is a character display.
type LCD interface {
	Peripheral
	WriteString(row, col int, s string)
	Backlight(on bool)
}

// Watchdog must be refreshed periodically or it resets the system.
type Watchdog interface {
	Peripheral
	Refresh()
}

// LED is a single output pin.
type LED interface {
	Peripheral
	Set(on bool)
	Toggle()
}

// Stopper is implemented by peripherals which can be stopped for good.
type Stopper interface {
	Stop()
}

// MustInit initializes a peripheral, an error is fatal.
func MustInit(p Peripheral) {
	if err := p.Init(); err != nil {
		fatal.Raise(fatal.CodePeripheralInit)
	}
}

// SafeState returns the hook driving the peripherals to a safe
// configuration once halted: outputs off, alarm disabled, and every
// peripheral implementing Stopper stopped.
func SafeState(rtc RTC, lcd LCD, leds []LED, others ...interface{}) fatal.SafeStateHook {
	return func(*fatal.Error) {
		for _, led := range leds {
			led.Set(false)
		}
		if rtc != nil {
			rtc.DeactivateAlarm()
		}
		if lcd != nil {
			lcd.Backlight(false)
		}
		for _, p := range others {
			if s, ok := p.(Stopper); ok {
				s.Stop()
			}
		}
	}
}
