package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunnableFunc is func form of Runnable.
type RunnableFunc func(context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Task is the application logic dispatched by the Scheduler.
type Task interface {
	// Init runs exactly once before the dispatch loop starts.
	Init()
	// Run runs once per period. It must not block.
	Run()
}

// TaskFuncs is the func form of Task.
type TaskFuncs struct {
	InitFn func()
	RunFn  func()
}

// Init implements Task.
func (t TaskFuncs) Init() {
	if t.InitFn != nil {
		t.InitFn()
	}
}

// Run implements Task.
func (t TaskFuncs) Run() {
	t.RunFn()
}

// RunFunc creates a Task with no init routine.
func RunFunc(fn func()) Task {
	return TaskFuncs{RunFn: fn}
}

// TimeBase provides the free running counters the Scheduler relies on.
type TimeBase interface {
	// Millis is the millisecond counter advanced by the system tick.
	Millis() uint32
	// Cycles samples a free running counter independent of Millis.
	Cycles() uint32
	// CyclesPerMilli is the rate of Cycles.
	CyclesPerMilli() uint32
	// Idle is called while waiting for the next tick.
	Idle()
}
