package framework

import "time"

// SystemTime is the TimeBase of a hosted OS, backed by the monotonic clock.
type SystemTime struct {
	// IdleSleep is how long Idle sleeps.
	IdleSleep time.Duration

	start time.Time
}

// NewSystemTime creates a SystemTime starting at zero now.
func NewSystemTime() *SystemTime {
	return &SystemTime{IdleSleep: 200 * time.Microsecond, start: time.Now()}
}

// Millis implements TimeBase.
func (t *SystemTime) Millis() uint32 {
	return uint32(time.Since(t.start) / time.Millisecond)
}

// Cycles implements TimeBase, one cycle per microsecond.
func (t *SystemTime) Cycles() uint32 {
	return uint32(time.Since(t.start) / time.Microsecond)
}

// CyclesPerMilli implements TimeBase.
func (t *SystemTime) CyclesPerMilli() uint32 {
	return 1000
}

// Idle implements TimeBase.
func (t *SystemTime) Idle() {
	time.Sleep(t.IdleSleep)
}
