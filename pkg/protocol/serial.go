package protocol

import (
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/cantp"
	"github.com/robotalks/canclock/pkg/irq"
	"github.com/robotalks/canclock/pkg/ring"
)

// Phase is the step of the serial state machine.
type Phase uint8

// Phases.
const (
	PhaseIdle Phase = iota
	PhaseReceiving
	PhaseTime
	PhaseDate
	PhaseAlarm
	PhaseOk
	PhaseError
)

var phaseNames = [...]string{"idle", "receiving", "time", "date", "alarm", "ok", "error"}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "invalid"
}

// Stats counts frames seen by the serial task.
type Stats struct {
	Received uint32 // frames taken off the queue
	Ignored  uint32 // not a well-formed single frame
	Accepted uint32
	Rejected uint32
	Dropped  uint32 // queue full in the receive interrupt
	TxFailed uint32
}

// Serial is the task validating commands. Frames are queued by ReceiveISR,
// the bus receive interrupt, and processed one per run.
type Serial struct {
	RX     *ring.Queue[can.Frame]
	Bus    can.Bus
	Shared *State
	Filter can.Filter
	Source irq.Source

	phase   Phase
	payload [MaxCommandLen]byte
	size    int
	msg     Message
	stats   Stats
	dropped uint32
}

// NewSerial creates the serial task.
func NewSerial(rx *ring.Queue[can.Frame], bus can.Bus, shared *State) *Serial {
	return &Serial{
		RX:     rx,
		Bus:    bus,
		Shared: shared,
		Filter: can.CommandFilter,
		Source: irq.BusRx,
	}
}

// ReceiveISR queues a frame accepted by the filter. It never blocks: when
// the queue is full the frame is dropped and counted.
func (s *Serial) ReceiveISR(f can.Frame) {
	if !s.Filter.Match(f) {
		return
	}
	if !s.RX.WriteISR(f, s.Source) {
		atomic.AddUint32(&s.dropped, 1)
	}
}

// HandleFrame implements can.Handler.
func (s *Serial) HandleFrame(f can.Frame) {
	s.ReceiveISR(f)
}

// Init implements framework.Task.
func (s *Serial) Init() {
	s.RX.FlushISR(s.Source)
	s.phase = PhaseIdle
}

// Run implements framework.Task. It processes at most one frame.
func (s *Serial) Run() {
	s.Step()
	for s.phase != PhaseIdle {
		s.Step()
	}
}

// Phase returns the current phase.
func (s *Serial) Phase() Phase {
	return s.phase
}

// Stats returns a snapshot of the counters.
func (s *Serial) Stats() Stats {
	st := s.stats
	st.Dropped = atomic.LoadUint32(&s.dropped)
	return st
}

// Step advances the state machine by one transition.
func (s *Serial) Step() {
	switch s.phase {
	case PhaseIdle:
		s.receive()
	case PhaseReceiving:
		s.phase = s.dispatch()
	case PhaseTime:
		t := calendar.Time{Hour: s.payload[1], Minute: s.payload[2], Second: s.payload[3]}
		s.phase = s.validated(t.Valid(), Message{Kind: KindTime, Time: t})
	case PhaseDate:
		d := calendar.Date{
			Day:   s.payload[1],
			Month: calendar.Month(s.payload[2]),
			Year:  uint16(s.payload[3])<<8 | uint16(s.payload[4]),
		}
		valid := d.Valid()
		if valid {
			d.WeekDay = calendar.WeekDayOf(d.Day, d.Month, d.Year)
		}
		s.phase = s.validated(valid, Message{Kind: KindDate, Date: d})
	case PhaseAlarm:
		a := calendar.Alarm{Hour: s.payload[1], Minute: s.payload[2]}
		s.phase = s.validated(a.Valid(), Message{Kind: KindAlarm, Alarm: a})
	case PhaseOk:
		s.Shared.Apply(s.msg)
		s.stats.Accepted++
		s.reply(ResultOk)
		s.phase = PhaseIdle
	case PhaseError:
		s.stats.Rejected++
		s.reply(ResultError)
		s.phase = PhaseIdle
	default:
		s.phase = PhaseIdle
	}
}

func (s *Serial) receive() {
	f, ok := s.RX.ReadISR(s.Source)
	if !ok {
		return
	}
	s.stats.Received++
	p, err := cantp.DecodeFrame(f)
	if err != nil || len(p.Data) < MinCommandLen || len(p.Data) > MaxCommandLen {
		s.stats.Ignored++
		glog.V(2).Infof("serial: ignored %v", f)
		return
	}
	s.size = copy(s.payload[:], p.Data)
	s.phase = PhaseReceiving
}

func (s *Serial) dispatch() Phase {
	kind := Kind(s.payload[0])
	if s.size != kind.payloadLen() {
		glog.V(2).Infof("serial: %v with length %d", kind, s.size)
		return PhaseError
	}
	switch kind {
	case KindTime:
		return PhaseTime
	case KindDate:
		return PhaseDate
	case KindAlarm:
		return PhaseAlarm
	}
	return PhaseError
}

func (s *Serial) validated(valid bool, msg Message) Phase {
	if !valid {
		glog.V(2).Infof("serial: invalid %v % x", msg.Kind, s.payload[1:s.size])
		return PhaseError
	}
	s.msg = msg
	return PhaseOk
}

func (s *Serial) reply(r Result) {
	if err := s.Bus.Transmit(ReplyFrame(r)); err != nil {
		s.stats.TxFailed++
		glog.Warningf("serial: reply %v: %v", r, err)
	}
}
