package sh

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/bus/mqtt"
	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/fatal"
	"github.com/robotalks/canclock/pkg/telemetry"
)

// Status is the last report of a clock in display form.
type Status struct {
	Node        string                   `json:"node"`
	Time        string                   `json:"time"`
	Date        string                   `json:"date"`
	Alarm       string                   `json:"alarm"`
	AlarmActive bool                     `json:"alarm_active"`
	Halted      bool                     `json:"halted"`
	Halt        string                   `json:"halt,omitempty"`
	Frames      *telemetry.FrameCounters `json:"frames,omitempty"`
}

// StatusFrom converts a report.
func StatusFrom(s *telemetry.ClockStatus) *Status {
	st := &Status{
		Node: s.Node,
		Time: calendar.Time{Hour: uint8(s.Hour), Minute: uint8(s.Minute), Second: uint8(s.Second)}.String(),
		Date: calendar.Date{
			Day:     uint8(s.Day),
			Month:   calendar.Month(s.Month),
			Year:    uint16(s.Year),
			WeekDay: calendar.Weekday(s.WeekDay),
		}.String(),
		Alarm:       calendar.Alarm{Hour: uint8(s.AlarmHour), Minute: uint8(s.AlarmMinute)}.String(),
		AlarmActive: s.AlarmActive,
		Halted:      s.Halted,
		Frames:      s.Frames,
	}
	if s.Halted {
		st.Halt = fmt.Sprintf("%v at %s", fatal.Code(s.HaltCode), s.HaltAt)
	}
	return st
}

// String implements fmt.Stringer.
func (s *Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s alarm %s", s.Node, s.Date, s.Time, s.Alarm)
	if s.AlarmActive {
		b.WriteString(" RINGING")
	}
	if s.Frames != nil {
		fmt.Fprintf(&b, " frames %d/%d/%d", s.Frames.Accepted, s.Frames.Rejected, s.Frames.Received)
	}
	if s.Halted {
		fmt.Fprintf(&b, " HALTED %s", s.Halt)
	}
	return b.String()
}

// StatusWatcher keeps the last report of every clock.
type StatusWatcher struct {
	statuses map[string]*Status
	lock     sync.RWMutex
	sub      *mqtt.Subscription
}

// NewStatusWatcher creates an empty StatusWatcher.
func NewStatusWatcher() *StatusWatcher {
	return &StatusWatcher{statuses: make(map[string]*Status)}
}

// WatchStatus subscribes to the reports on q.
func WatchStatus(q *mqtt.Queue) *StatusWatcher {
	w := NewStatusWatcher()
	w.sub = q.Sub(telemetry.StatusTopics, w.HandleReport)
	return w
}

// HandleReport is the mqtt.Handler of status reports.
func (w *StatusWatcher) HandleReport(topic string, payload []byte) {
	report, err := telemetry.Decode(payload)
	if err != nil {
		glog.Warningf("invalid report on %s: %v", topic, err)
		return
	}
	st := StatusFrom(report)
	w.lock.Lock()
	w.statuses[st.Node] = st
	w.lock.Unlock()
}

// Statuses returns the reports by node.
func (w *StatusWatcher) Statuses() map[string]*Status {
	w.lock.RLock()
	defer w.lock.RUnlock()
	statuses := make(map[string]*Status, len(w.statuses))
	for node, st := range w.statuses {
		statuses[node] = st
	}
	return statuses
}

// Close stops watching.
func (w *StatusWatcher) Close() error {
	if w.sub != nil {
		return w.sub.Close()
	}
	return nil
}

// SortedNodes returns the nodes in statuses sorted.
func SortedNodes(statuses map[string]*Status) []string {
	nodes := make([]string, 0, len(statuses))
	for node := range statuses {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}
