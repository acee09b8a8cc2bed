package protocol

import "github.com/robotalks/canclock/pkg/calendar"

// Changes flags the parts of State written since the last TakeChanges.
type Changes uint8

// Change flags.
const (
	ChangedTime Changes = 1 << iota
	ChangedDate
	ChangedAlarm
)

// Has checks if c contains all flags in o.
func (c Changes) Has(o Changes) bool {
	return c&o == o
}

// State is the time, date and alarm commanded over the bus. It's shared
// between tasks and must only be accessed from task context.
type State struct {
	Time  calendar.Time
	Date  calendar.Date
	Alarm calendar.Alarm

	changes Changes
}

// NewState creates a State holding the start-of-day defaults.
func NewState() *State {
	return &State{
		Time:  calendar.DefaultTime,
		Date:  calendar.DefaultDate,
		Alarm: calendar.DefaultAlarm,
	}
}

// Apply stores a validated message.
func (s *State) Apply(msg Message) {
	switch msg.Kind {
	case KindTime:
		s.Time = msg.Time
		s.changes |= ChangedTime
	case KindDate:
		s.Date = msg.Date
		s.changes |= ChangedDate
	case KindAlarm:
		s.Alarm = msg.Alarm
		s.changes |= ChangedAlarm
	}
}

// TakeChanges returns and clears the pending change flags.
func (s *State) TakeChanges() Changes {
	c := s.changes
	s.changes = 0
	return c
}
