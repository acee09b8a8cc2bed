package telemetry

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/canclock/pkg/bus/mqtt"
	"github.com/robotalks/canclock/pkg/clock"
	"github.com/robotalks/canclock/pkg/fatal"
	"github.com/robotalks/canclock/pkg/protocol"
)

// StatusTopics matches the status topics of all nodes.
const StatusTopics = "clock/+/status"

// Publisher sends a report without waiting for delivery.
type Publisher interface {
	Publish(topic string, payload []byte)
}

// PublishFunc is func form of Publisher.
type PublishFunc func(topic string, payload []byte)

// Publish implements Publisher.
func (f PublishFunc) Publish(topic string, payload []byte) {
	f(topic, payload)
}

// MQTTPublisher publishes retained reports through an MQTT queue.
type MQTTPublisher struct {
	Queue *mqtt.Queue
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(topic string, payload []byte) {
	p.Queue.PubWith(topic, payload, 0, true)
}

// Reporter is the task publishing ClockStatus.
type Reporter struct {
	Node      string
	Publisher Publisher
	Clock     interface{ Snapshot() clock.Snapshot }
	Serial    interface{ Stats() protocol.Stats }
}

// Topic returns the topic reports go to.
func (r *Reporter) Topic() string {
	return fmt.Sprintf("clock/%s/status", r.Node)
}

// Status builds the current report.
func (r *Reporter) Status() *ClockStatus {
	s := &ClockStatus{Node: r.Node}
	if r.Clock != nil {
		snap := r.Clock.Snapshot()
		s.Hour, s.Minute, s.Second = uint32(snap.Time.Hour), uint32(snap.Time.Minute), uint32(snap.Time.Second)
		s.Day, s.Month, s.Year = uint32(snap.Date.Day), uint32(snap.Date.Month), uint32(snap.Date.Year)
		s.WeekDay = uint32(snap.Date.WeekDay)
		s.AlarmHour, s.AlarmMinute = uint32(snap.Alarm.Hour), uint32(snap.Alarm.Minute)
		s.AlarmActive = snap.AlarmActive
	}
	if r.Serial != nil {
		st := r.Serial.Stats()
		s.Frames = &FrameCounters{
			Received: st.Received,
			Ignored:  st.Ignored,
			Accepted: st.Accepted,
			Rejected: st.Rejected,
			Dropped:  st.Dropped,
			TxFailed: st.TxFailed,
		}
	}
	return s
}

func (r *Reporter) publish(s *ClockStatus) {
	payload, err := proto.Marshal(s)
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	r.Publisher.Publish(r.Topic(), payload)
}

// Init implements framework.Task.
func (r *Reporter) Init() {}

// Run implements framework.Task.
func (r *Reporter) Run() {
	r.publish(r.Status())
}

// OnHalt publishes the final report, it's a fatal.SafeStateHook.
func (r *Reporter) OnHalt(err *fatal.Error) {
	s := r.Status()
	s.Halted = true
	if err != nil {
		s.HaltCode = uint32(err.Code)
		s.HaltAt = fmt.Sprintf("%s:%d", err.File, err.Line)
	}
	r.publish(s)
}
