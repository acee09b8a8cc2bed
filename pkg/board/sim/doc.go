// Package sim provides host simulated peripherals for the clock board.
//
// Interrupt sources are simulated with goroutines calling the registered
// handlers, the same way hardware runs an ISR outside task context.
package sim
