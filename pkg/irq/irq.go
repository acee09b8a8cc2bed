// Package irq provides the interrupt masking primitive shared by task and
// interrupt context.
package irq

// Source selects an interrupt line.
type Source uint8

// Interrupt sources used by the appliance.
const (
	// BusRx is the bus receive FIFO interrupt.
	BusRx Source = 1
	// RTCAlarm is the real time clock alarm interrupt.
	RTCAlarm Source = 2
	// Button is the user button edge interrupt.
	Button Source = 3

	// AllSources is the reserved selector which masks every maskable interrupt.
	AllSources Source = 0xff
)

// NumSources is the number of individually maskable sources.
const NumSources = 32

// Masker disables and restores interrupt sources.
type Masker interface {
	// Disable masks src (or all sources) and returns the prior state.
	Disable(src Source) State
	// Restore puts the masking back to the state returned by Disable.
	Restore(State)
}

// Guard runs fn with src masked.
func Guard(m Masker, src Source, fn func()) {
	if m == nil {
		m = CPU
	}
	state := m.Disable(src)
	defer m.Restore(state)
	fn()
}

// CPU is the interrupt controller of the processor the code runs on.
var CPU Masker = NewController()
