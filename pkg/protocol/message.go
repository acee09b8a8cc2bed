package protocol

import (
	"fmt"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/cantp"
)

// Kind is the kind of a command.
type Kind byte

// Command kinds.
const (
	KindNone Kind = iota
	KindTime
	KindDate
	KindAlarm
)

var kindNames = map[Kind]string{
	KindNone:  "none",
	KindTime:  "time",
	KindDate:  "date",
	KindAlarm: "alarm",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// payloadLen returns the transport length of a command of the kind,
// kind byte included.
func (k Kind) payloadLen() int {
	switch k {
	case KindTime:
		return 4
	case KindDate:
		return 5
	case KindAlarm:
		return 3
	}
	return 0
}

// Accepted transport lengths.
const (
	MinCommandLen = 3
	MaxCommandLen = 5
)

// Result is the payload of a reply.
type Result byte

// Reply results.
const (
	ResultOk    Result = 0x55
	ResultError Result = 0xAA
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case ResultOk:
		return "ok"
	case ResultError:
		return "error"
	}
	return fmt.Sprintf("result(0x%02x)", byte(r))
}

// Message is a validated command.
type Message struct {
	Kind  Kind
	Time  calendar.Time
	Date  calendar.Date
	Alarm calendar.Alarm
}

func command(payload ...byte) can.Frame {
	p := cantp.Packet{Type: cantp.SingleFrame, Data: payload}
	f, err := p.Frame(can.CommandID)
	if err != nil {
		// payloads built here never exceed a single frame
		panic(err)
	}
	return f
}

// TimeCommand builds the frame setting the time of day.
func TimeCommand(t calendar.Time) can.Frame {
	return command(byte(KindTime), t.Hour, t.Minute, t.Second)
}

// DateCommand builds the frame setting the date. The weekday is not sent.
func DateCommand(d calendar.Date) can.Frame {
	return command(byte(KindDate), d.Day, byte(d.Month), byte(d.Year>>8), byte(d.Year))
}

// AlarmCommand builds the frame setting the alarm.
func AlarmCommand(a calendar.Alarm) can.Frame {
	return command(byte(KindAlarm), a.Hour, a.Minute)
}

// ReplyFrame builds the reply carrying r.
func ReplyFrame(r Result) can.Frame {
	p := cantp.Packet{Type: cantp.SingleFrame, Data: []byte{byte(r)}}
	f, _ := p.Frame(can.ReplyID)
	return f
}

// ParseReply extracts the result from a reply frame.
func ParseReply(f can.Frame) (Result, error) {
	if f.ID != can.ReplyID {
		return 0, ErrNotReply
	}
	p, err := cantp.DecodeFrame(f)
	if err != nil {
		return 0, err
	}
	if len(p.Data) != 1 {
		return 0, ErrNotReply
	}
	switch r := Result(p.Data[0]); r {
	case ResultOk, ResultError:
		return r, nil
	}
	return 0, ErrNotReply
}
