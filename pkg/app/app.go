// Package app composes the appliance: queues, scheduler, tasks, the
// simulated board, the CAN bus and telemetry.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/app/config"
	"github.com/robotalks/canclock/pkg/board"
	"github.com/robotalks/canclock/pkg/board/sim"
	"github.com/robotalks/canclock/pkg/bus/websocket"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/clock"
	"github.com/robotalks/canclock/pkg/display"
	"github.com/robotalks/canclock/pkg/fatal"
	"github.com/robotalks/canclock/pkg/framework"
	"github.com/robotalks/canclock/pkg/irq"
	"github.com/robotalks/canclock/pkg/protocol"
	"github.com/robotalks/canclock/pkg/ring"
	"github.com/robotalks/canclock/pkg/telemetry"
)

// Board is the simulated board.
type Board struct {
	RTC       *sim.RTC
	LCD       *sim.LCD
	Heartbeat *sim.LED
	Watchdog  *sim.Watchdog
	Button    *sim.Button
}

// Options are the host side endpoints of the appliance.
type Options struct {
	// Time is the time base, framework.SystemTime when nil.
	Time framework.TimeBase
	// Display receives the rendered LCD, nil for none.
	Display io.Writer
	// ButtonInput raises a button press per line, nil for none.
	ButtonInput io.Reader
	// Publisher overrides the MQTT telemetry publisher.
	Publisher telemetry.Publisher
}

// Context owns everything running on the appliance.
type Context struct {
	Config *config.Config
	Time   framework.TimeBase
	IRQ    *irq.Controller
	Halter *fatal.Halter

	Scheduler *framework.Scheduler
	Shared    *protocol.State
	RX        *ring.Queue[can.Frame]
	Events    *ring.Queue[clock.Event]

	Serial    *protocol.Serial
	Clock     *clock.Clock
	Display   *display.Display
	Heartbeat *board.Heartbeat
	Watchdog  *board.WatchdogRefresh
	Reporter  *telemetry.Reporter

	Board Board
	// Bus transmits replies, Loopback is set for the loop:// bus and Gateway
	// when a websocket listen address is configured.
	Bus      can.Bus
	Loopback *can.Loopback
	Gateway  *websocket.Gateway

	Tasks        []framework.TaskID
	RefreshTimer framework.TaskID

	runnables []framework.Runnable
	closers   []io.Closer
	resetCh   chan string
}

// New builds the appliance from conf.
func New(conf *config.Config, opts Options) (*Context, error) {
	c := &Context{
		Config:  conf,
		Time:    opts.Time,
		IRQ:     irq.NewController(),
		resetCh: make(chan string, 1),
	}
	if c.Time == nil {
		c.Time = framework.NewSystemTime()
	}
	c.Halter = fatal.NewHalter(c.IRQ)

	if err := c.setupQueues(); err != nil {
		return nil, err
	}
	c.setupBoard(opts)

	c.Shared = protocol.NewState()
	c.Serial = protocol.NewSerial(c.RX, nil, c.Shared)
	c.Clock = clock.New(c.Board.RTC, c.Shared, c.Events)
	c.Display = display.New(c.Board.LCD, c.Clock)
	c.Heartbeat = &board.Heartbeat{LED: c.Board.Heartbeat}
	c.Watchdog = &board.WatchdogRefresh{Watchdog: c.Board.Watchdog}
	c.Board.RTC.OnAlarm = c.Clock.AlarmISR
	c.Board.Button.OnPress = c.Clock.ButtonISR

	if err := c.setupBus(); err != nil {
		c.Close()
		return nil, err
	}
	c.Serial.Bus = c.Bus
	if err := c.setupTelemetry(opts.Publisher); err != nil {
		c.Close()
		return nil, err
	}

	c.Halter.OnHalt(board.SafeState(c.Board.RTC, c.Board.LCD, []board.LED{c.Board.Heartbeat}, c.Board.Watchdog))
	if c.Reporter != nil {
		c.Halter.OnHalt(c.Reporter.OnHalt)
	}

	if err := c.setupScheduler(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) setupQueues() error {
	var err error
	if c.RX, err = ring.New(make([]can.Frame, c.Config.RxQueueSize)); err != nil {
		c.Halter.Halt(fatal.At(fatal.CodeQueueParam))
		return fmt.Errorf("rx queue: %w", err)
	}
	if c.Events, err = ring.New(make([]clock.Event, c.Config.EventQueueSize)); err != nil {
		c.Halter.Halt(fatal.At(fatal.CodeQueueParam))
		return fmt.Errorf("event queue: %w", err)
	}
	c.RX.IRQ, c.Events.IRQ = c.IRQ, c.IRQ
	return nil
}

func (c *Context) setupBoard(opts Options) {
	c.Board = Board{
		RTC:       sim.NewRTC(c.Time),
		LCD:       sim.NewLCD(opts.Display),
		Heartbeat: &sim.LED{Name: "heartbeat"},
		Watchdog:  sim.NewWatchdog(c.Time),
		Button:    &sim.Button{In: opts.ButtonInput},
	}
	c.Board.Watchdog.OnReset = func(reason string) {
		select {
		case c.resetCh <- reason:
		default:
		}
	}
	c.goRun("rtc", c.Board.RTC)
	c.goRun("watchdog", c.Board.Watchdog)
	c.goRun("button", c.Board.Button)
}

func (c *Context) setupTelemetry(pub telemetry.Publisher) error {
	if pub == nil && c.Config.TelemetryURL != "" {
		q, err := ConnectMQTT(c.Config.TelemetryURL, c.Config.Node+"-status")
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		c.closers = append(c.closers, q)
		pub = &telemetry.MQTTPublisher{Queue: q}
	}
	if pub != nil {
		c.Reporter = &telemetry.Reporter{
			Node:      c.Config.Node,
			Publisher: pub,
			Clock:     c.Clock,
			Serial:    c.Serial,
		}
	}
	return nil
}

type periodicTask struct {
	name   string
	task   framework.Task
	period time.Duration
}

func (c *Context) setupScheduler() error {
	conf := c.Config
	c.Scheduler = framework.NewScheduler(conf.Tick, conf.MaxTasks, conf.MaxTimers, c.Time, c.Halter)
	if err := c.Scheduler.Err(); err != nil {
		return err
	}
	tasks := []periodicTask{
		{"serial", c.Serial, conf.Periods.Serial},
		{"clock", c.Clock, conf.Periods.Clock},
		{"heartbeat", c.Heartbeat, conf.Periods.Heartbeat},
		{"watchdog", c.Watchdog, conf.Periods.Watchdog},
		{"display", c.Display, conf.Periods.Display},
	}
	if c.Reporter != nil {
		tasks = append(tasks, periodicTask{"telemetry", c.Reporter, conf.Periods.Telemetry})
	}
	for _, t := range tasks {
		id := c.Scheduler.RegisterTask(t.task, t.period)
		if err := c.Scheduler.Err(); err != nil {
			return err
		}
		if id == framework.NoTask {
			return fmt.Errorf("%w: %s %v", ErrTaskPeriod, t.name, t.period)
		}
		glog.V(2).Infof("task %d: %s every %v", id, t.name, t.period)
		c.Tasks = append(c.Tasks, id)
	}
	c.RefreshTimer = c.Scheduler.RegisterTimer(clock.RefreshInterval, c.Clock.Tick)
	if err := c.Scheduler.Err(); err != nil {
		return err
	}
	c.Scheduler.StartTimer(c.RefreshTimer)
	return nil
}

func (c *Context) goRun(name string, r framework.Runnable) {
	c.runnables = append(c.runnables, framework.NamedRun(name, r))
}

// Run runs the appliance until ctx is done, the system halts or the
// watchdog resets it. A halted appliance stays halted until ctx is done,
// then releases the bus connections and returns the *fatal.Error.
func (c *Context) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := framework.NewRunnerWith(ctx).Go(c.runnables...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Scheduler.Run(ctx)
	}()

	var err error
	select {
	case err = <-errCh:
	case reason := <-c.resetCh:
		cancel()
		<-errCh
		err = fmt.Errorf("%w: %s", ErrWatchdogReset, reason)
	}

	if halted := c.Halter.Err(); halted != nil {
		// interrupts stay masked, handlers blocked on them never return
		<-ctx.Done()
		if cerr := c.Close(); cerr != nil {
			glog.Warningf("close: %v", cerr)
		}
		return halted
	}
	cancel()
	if werr := runner.Wait(); werr != nil {
		glog.Warningf("runners: %v", werr)
	}
	c.Close()
	if err == context.Canceled {
		return nil
	}
	return err
}

// Close releases the bus connections.
func (c *Context) Close() error {
	var errs framework.AggregatedError
	for _, closer := range c.closers {
		errs.Add(closer.Close())
	}
	c.closers = nil
	return errs.Aggregate()
}
