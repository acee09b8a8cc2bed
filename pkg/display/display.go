// Package display implements the display task.
package display

import (
	"fmt"

	"github.com/robotalks/canclock/pkg/board"
	"github.com/robotalks/canclock/pkg/clock"
)

// Screen positions.
const (
	TimeRow = 1
	TimeCol = 3
	DateRow = 0
	DateCol = 1
)

// Source supplies the values to show.
type Source interface {
	Snapshot() clock.Snapshot
}

type field uint8

const (
	fieldTime field = iota
	fieldDate
)

// Display alternately refreshes the time and the date line. While the
// alarm is active the date line shows the alarm banner.
type Display struct {
	LCD    board.LCD
	Source Source

	next field
}

// New creates the display task.
func New(lcd board.LCD, src Source) *Display {
	return &Display{LCD: lcd, Source: src}
}

// Init implements framework.Task.
func (d *Display) Init() {
	board.MustInit(d.LCD)
	d.LCD.Backlight(true)
	d.next = fieldTime
}

// Run implements framework.Task.
func (d *Display) Run() {
	snap := d.Source.Snapshot()
	switch d.next {
	case fieldTime:
		d.next = fieldDate
		d.LCD.WriteString(TimeRow, TimeCol, snap.Time.String())
	default:
		d.next = fieldTime
		if snap.AlarmActive {
			d.LCD.WriteString(DateRow, DateCol, AlarmBanner(snap))
		} else {
			d.LCD.WriteString(DateRow, DateCol, snap.Date.String())
		}
	}
}

// AlarmBanner formats the alarm line, as wide as the date line.
func AlarmBanner(snap clock.Snapshot) string {
	return fmt.Sprintf("%-14s", " ALARM  "+snap.Alarm.String())
}
