package app

import "errors"

var (
	// ErrWatchdogReset indicates the watchdog reset the appliance.
	ErrWatchdogReset = errors.New("watchdog reset")
	// ErrTaskPeriod indicates a task period the scheduler refused.
	ErrTaskPeriod = errors.New("invalid task period")
)
