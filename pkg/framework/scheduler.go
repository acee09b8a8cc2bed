package framework

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/fatal"
)

// TaskID identifies a registered task or timer, starting from 1.
type TaskID uint8

// NoTask is returned when a task or timer is not registered.
const NoTask TaskID = 0

// Table limits. The overrun code of every task must fit in a fatal.Code and
// every timer id in a TaskID.
const (
	MaxTasks  = 0xFF - int(fatal.CodeDeadlineBase)
	MaxTimers = 0xFF
)

// DeadlineTolerance is the allowed overrun of a task interval, in tenths
// of its period.
const DeadlineTolerance = 11

type taskControl struct {
	task    Task
	period  time.Duration
	elapsed time.Duration
	running bool

	armed  bool
	lastAt uint32 // Cycles at the previous invocation
}

// Scheduler is a cooperative tick driven dispatcher. Tasks run to completion
// in registration order, once per period. A task whose interval between two
// invocations exceeds its period by more than 10% halts the system.
//
// All methods must be called from task context.
type Scheduler struct {
	Time TimeBase
	Sink fatal.Sink

	tick    time.Duration
	tasks   []taskControl
	timers  []timerControl
	started bool
	err     *fatal.Error
}

// NewScheduler creates a Scheduler with the given tick, a whole number of
// milliseconds, and room for maxTasks tasks and maxTimers timers, at most
// MaxTasks and MaxTimers. Invalid parameters are fatal.
func NewScheduler(tick time.Duration, maxTasks, maxTimers int, tb TimeBase, sink fatal.Sink) *Scheduler {
	s := &Scheduler{Time: tb, Sink: sink, tick: tick}
	if tick < time.Millisecond || tick%time.Millisecond != 0 || maxTasks <= 0 || maxTasks > MaxTasks ||
		maxTimers < 0 || maxTimers > MaxTimers || tb == nil {
		s.fail(fatal.At(fatal.CodeSchedulerParam))
		return s
	}
	s.tasks = make([]taskControl, 0, maxTasks)
	s.timers = make([]timerControl, 0, maxTimers)
	return s
}

// Tick returns the time base quantum.
func (s *Scheduler) Tick() time.Duration {
	return s.tick
}

// Err returns the fatal error which stopped the scheduler.
func (s *Scheduler) Err() *fatal.Error {
	return s.err
}

func (s *Scheduler) validPeriod(period time.Duration) bool {
	return s.tick > 0 && period > s.tick && period%s.tick == 0
}

// RegisterTask adds a task running every period, which must be a multiple
// of and greater than the tick. It returns NoTask for an invalid period.
// A nil task, a non-positive period or a full task table is fatal.
func (s *Scheduler) RegisterTask(task Task, period time.Duration) TaskID {
	if s.err != nil {
		return NoTask
	}
	if task == nil {
		s.fail(fatal.At(fatal.CodeTaskMissing))
		return NoTask
	}
	if fns, ok := task.(TaskFuncs); ok && fns.RunFn == nil {
		s.fail(fatal.At(fatal.CodeTaskMissing))
		return NoTask
	}
	if period <= 0 {
		s.fail(fatal.At(fatal.CodeTaskPeriod))
		return NoTask
	}
	if !s.validPeriod(period) {
		glog.Warningf("task period %v is not a multiple of tick %v", period, s.tick)
		return NoTask
	}
	if s.started {
		glog.Warning("task registered after scheduler started")
		return NoTask
	}
	if len(s.tasks) == cap(s.tasks) {
		s.fail(fatal.At(fatal.CodeSchedulerParam))
		return NoTask
	}
	s.tasks = append(s.tasks, taskControl{task: task, period: period, running: true})
	return TaskID(len(s.tasks))
}

func (s *Scheduler) taskAt(id TaskID) *taskControl {
	if id == NoTask || int(id) > len(s.tasks) {
		return nil
	}
	return &s.tasks[id-1]
}

// StopTask prevents a task from being dispatched.
func (s *Scheduler) StopTask(id TaskID) bool {
	t := s.taskAt(id)
	if t == nil {
		return false
	}
	t.running = false
	return true
}

// StartTask resumes a stopped task.
func (s *Scheduler) StartTask(id TaskID) bool {
	t := s.taskAt(id)
	if t == nil {
		return false
	}
	t.running = true
	return true
}

// ReconfigurePeriod replaces the period of a task, keeping its elapsed time.
// The deadline of the next invocation is measured from the reconfiguration.
func (s *Scheduler) ReconfigurePeriod(id TaskID, period time.Duration) bool {
	t := s.taskAt(id)
	if t == nil || !s.validPeriod(period) {
		return false
	}
	t.period = period
	if t.armed {
		t.lastAt = s.Time.Cycles()
	}
	return true
}

// Run runs the init routine of every task once, in registration order, and
// then dispatches tasks and timers forever. It returns only on a fatal error
// or when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.tasks {
		if err := s.invoke(s.tasks[i].task.Init); err != nil {
			return err
		}
	}
	s.started = true
	glog.Infof("scheduler started: tick %v, %d tasks, %d timers", s.tick, len(s.tasks), len(s.timers))

	// ticks stay on a fixed grid, late ticks are dispatched back to back
	tickMs := uint32(s.tick / time.Millisecond)
	last := s.Time.Millis()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		now := s.Time.Millis()
		if now-last < tickMs {
			s.Time.Idle()
			continue
		}
		last += tickMs
		if err := s.dispatch(); err != nil {
			return err
		}
	}
}

func (s *Scheduler) dispatch() *fatal.Error {
	for i := range s.tasks {
		t := &s.tasks[i]
		if !t.armed {
			t.lastAt, t.armed = s.Time.Cycles(), true
		}
		if t.elapsed >= t.period {
			if t.running {
				if err := s.runTask(TaskID(i+1), t); err != nil {
					return err
				}
			} else {
				t.lastAt = s.Time.Cycles()
			}
			t.elapsed = 0
		}
		t.elapsed += s.tick
	}
	return s.serviceTimers()
}

func (s *Scheduler) runTask(id TaskID, t *taskControl) *fatal.Error {
	before := s.Time.Cycles()
	if err := s.invoke(t.task.Run); err != nil {
		return err
	}
	after := s.Time.Cycles()
	interval := uint64(after - t.lastAt)
	t.lastAt = before
	limit := uint64(t.period/time.Millisecond) * uint64(s.Time.CyclesPerMilli()) * DeadlineTolerance / 10
	if interval > limit {
		glog.Errorf("task %d overrun: %d cycles, limit %d", id, interval, limit)
		err := fatal.At(fatal.DeadlineCode(uint8(id)))
		s.fail(err)
		return err
	}
	return nil
}

func (s *Scheduler) invoke(fn func()) (err *fatal.Error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*fatal.Error)
			if !ok {
				panic(r)
			}
			s.fail(fe)
			err = fe
		}
	}()
	fn()
	return nil
}

func (s *Scheduler) fail(err *fatal.Error) {
	if s.err != nil {
		return
	}
	s.err = err
	if s.Sink != nil {
		s.Sink.Halt(err)
	}
}
