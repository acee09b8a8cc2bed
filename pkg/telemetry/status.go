// Package telemetry publishes the clock status for remote monitoring.
package telemetry

import "github.com/golang/protobuf/proto"

// ClockStatus is the periodic status report.
type ClockStatus struct {
	Node        string         `protobuf:"bytes,1,opt,name=node,proto3" json:"node,omitempty"`
	Hour        uint32         `protobuf:"varint,2,opt,name=hour,proto3" json:"hour,omitempty"`
	Minute      uint32         `protobuf:"varint,3,opt,name=minute,proto3" json:"minute,omitempty"`
	Second      uint32         `protobuf:"varint,4,opt,name=second,proto3" json:"second,omitempty"`
	Day         uint32         `protobuf:"varint,5,opt,name=day,proto3" json:"day,omitempty"`
	Month       uint32         `protobuf:"varint,6,opt,name=month,proto3" json:"month,omitempty"`
	Year        uint32         `protobuf:"varint,7,opt,name=year,proto3" json:"year,omitempty"`
	WeekDay     uint32         `protobuf:"varint,8,opt,name=week_day,proto3" json:"week_day,omitempty"`
	AlarmHour   uint32         `protobuf:"varint,9,opt,name=alarm_hour,proto3" json:"alarm_hour,omitempty"`
	AlarmMinute uint32         `protobuf:"varint,10,opt,name=alarm_minute,proto3" json:"alarm_minute,omitempty"`
	AlarmActive bool           `protobuf:"varint,11,opt,name=alarm_active,proto3" json:"alarm_active,omitempty"`
	Halted      bool           `protobuf:"varint,12,opt,name=halted,proto3" json:"halted,omitempty"`
	HaltCode    uint32         `protobuf:"varint,13,opt,name=halt_code,proto3" json:"halt_code,omitempty"`
	HaltAt      string         `protobuf:"bytes,14,opt,name=halt_at,proto3" json:"halt_at,omitempty"`
	Frames      *FrameCounters `protobuf:"bytes,15,opt,name=frames,proto3" json:"frames,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ClockStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ClockStatus) Reset() { *m = ClockStatus{} }

// String implements proto.Message.
func (m *ClockStatus) String() string { return proto.CompactTextString(m) }

// FrameCounters reports the command frames seen.
type FrameCounters struct {
	Received uint32 `protobuf:"varint,1,opt,name=received,proto3" json:"received,omitempty"`
	Ignored  uint32 `protobuf:"varint,2,opt,name=ignored,proto3" json:"ignored,omitempty"`
	Accepted uint32 `protobuf:"varint,3,opt,name=accepted,proto3" json:"accepted,omitempty"`
	Rejected uint32 `protobuf:"varint,4,opt,name=rejected,proto3" json:"rejected,omitempty"`
	Dropped  uint32 `protobuf:"varint,5,opt,name=dropped,proto3" json:"dropped,omitempty"`
	TxFailed uint32 `protobuf:"varint,6,opt,name=tx_failed,proto3" json:"tx_failed,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *FrameCounters) ProtoMessage() {}

// Reset implements proto.Message.
func (m *FrameCounters) Reset() { *m = FrameCounters{} }

// String implements proto.Message.
func (m *FrameCounters) String() string { return proto.CompactTextString(m) }

// Decode parses an encoded ClockStatus.
func Decode(data []byte) (*ClockStatus, error) {
	var m ClockStatus
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
