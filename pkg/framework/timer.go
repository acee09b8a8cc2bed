package framework

import (
	"time"

	"github.com/robotalks/canclock/pkg/fatal"
)

type timerControl struct {
	timeout   time.Duration
	countdown time.Duration
	running   bool
	callback  func()
}

// RegisterTimer adds a software timer which calls callback every timeout
// once started. The timeout follows the same rules as a task period.
// Timers are registered stopped.
func (s *Scheduler) RegisterTimer(timeout time.Duration, callback func()) TaskID {
	if s.err != nil {
		return NoTask
	}
	if callback == nil {
		s.fail(fatal.At(fatal.CodeTaskMissing))
		return NoTask
	}
	if !s.validPeriod(timeout) {
		return NoTask
	}
	if len(s.timers) == cap(s.timers) {
		s.fail(fatal.At(fatal.CodeSchedulerParam))
		return NoTask
	}
	s.timers = append(s.timers, timerControl{
		timeout:   timeout,
		countdown: timeout,
		callback:  callback,
	})
	return TaskID(len(s.timers))
}

func (s *Scheduler) timerAt(id TaskID) *timerControl {
	if id == NoTask || int(id) > len(s.timers) {
		return nil
	}
	return &s.timers[id-1]
}

// TimerRemaining returns the time left before the timer expires.
func (s *Scheduler) TimerRemaining(id TaskID) time.Duration {
	if tm := s.timerAt(id); tm != nil {
		return tm.countdown
	}
	return 0
}

// ReloadTimer sets a new timeout and restarts the countdown from it.
func (s *Scheduler) ReloadTimer(id TaskID, timeout time.Duration) bool {
	tm := s.timerAt(id)
	if tm == nil || !s.validPeriod(timeout) {
		return false
	}
	tm.timeout, tm.countdown = timeout, timeout
	return true
}

// StartTimer lets the countdown run.
func (s *Scheduler) StartTimer(id TaskID) bool {
	tm := s.timerAt(id)
	if tm == nil {
		return false
	}
	tm.running = true
	return true
}

// StopTimer freezes the countdown.
func (s *Scheduler) StopTimer(id TaskID) bool {
	tm := s.timerAt(id)
	if tm == nil {
		return false
	}
	tm.running = false
	return true
}

func (s *Scheduler) serviceTimers() *fatal.Error {
	for i := range s.timers {
		tm := &s.timers[i]
		if !tm.running {
			continue
		}
		if tm.countdown -= s.tick; tm.countdown <= 0 {
			tm.countdown = tm.timeout
			if err := s.invoke(tm.callback); err != nil {
				return err
			}
		}
	}
	return nil
}
