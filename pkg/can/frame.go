// Package can defines classical CAN frames and the bus collaborator used by
// the appliance.
package can

import (
	"encoding/binary"
	"fmt"
)

// Identifiers used by the clock appliance.
const (
	CommandID uint32 = 0x111
	ReplyID   uint32 = 0x122
)

const (
	maxStdID = 0x7FF
	maxExtID = 0x1FFFFFFF

	effFlag = 0x80000000
	rtrFlag = 0x40000000

	// FrameSize is the size of an encoded frame.
	FrameSize = 16
)

// Frame is a classical CAN 2.0 frame.
type Frame struct {
	ID       uint32
	Extended bool
	RTR      bool
	Len      uint8
	Data     [8]byte
}

// NewFrame builds a standard data frame.
func NewFrame(id uint32, data []byte) (Frame, error) {
	f := Frame{ID: id, Extended: id > maxStdID}
	if len(data) > len(f.Data) {
		return f, ErrInvalidLen
	}
	f.Len = uint8(len(data))
	copy(f.Data[:], data)
	return f, f.Validate()
}

// Payload returns the data bytes in use.
func (f *Frame) Payload() []byte {
	n := f.Len
	if n > 8 {
		n = 8
	}
	return f.Data[:n]
}

// Validate checks identifier range and data length.
func (f Frame) Validate() error {
	if f.Len > 8 {
		return ErrInvalidLen
	}
	if f.Extended && f.ID > maxExtID || !f.Extended && f.ID > maxStdID {
		return ErrInvalidID
	}
	return nil
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("%03X#% X", f.ID, f.Payload())
}

// MarshalBinary encodes the frame in the SocketCAN can_frame layout:
// little-endian id with flags, length, 3 bytes padding, 8 data bytes.
func (f Frame) MarshalBinary() ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	id := f.ID
	if f.Extended {
		id |= effFlag
	}
	if f.RTR {
		id |= rtrFlag
	}
	buf := make([]byte, FrameSize)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = f.Len
	copy(buf[8:], f.Data[:])
	return buf, nil
}

// UnmarshalBinary decodes the SocketCAN can_frame layout.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < FrameSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrShortFrame, FrameSize, len(data))
	}
	id := binary.LittleEndian.Uint32(data[0:4])
	f.Extended = id&effFlag != 0
	f.RTR = id&rtrFlag != 0
	if f.Extended {
		f.ID = id & maxExtID
	} else {
		f.ID = id & maxStdID
	}
	f.Len = data[4]
	copy(f.Data[:], data[8:FrameSize])
	return f.Validate()
}

// Filter accepts frames whose identifier matches ID on the bits set in Mask.
type Filter struct {
	ID   uint32
	Mask uint32
}

// CommandFilter accepts only the command identifier.
var CommandFilter = Filter{ID: CommandID, Mask: maxStdID}

// Match checks if a frame passes the filter. Extended and remote frames are
// rejected.
func (f Filter) Match(fr Frame) bool {
	return !fr.Extended && !fr.RTR && fr.ID&f.Mask == f.ID&f.Mask
}
