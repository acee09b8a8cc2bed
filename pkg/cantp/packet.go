// Package cantp implements the single frame subset of the CAN transport
// protocol. The first byte of a frame carries the frame type in the high
// nibble and the payload length in the low nibble.
package cantp

import (
	"io"

	"github.com/robotalks/canclock/pkg/can"
)

// FrameType defines the type of transport frame.
type FrameType byte

// SingleFrame carries a whole message in one CAN frame.
const SingleFrame FrameType = 0

// MaxSingleFrameLen is the largest payload of a single frame.
const MaxSingleFrameLen = 7

// Packet is a decoded transport frame.
type Packet struct {
	Type FrameType
	Data []byte
}

// Decode parses a transport frame. Bytes beyond the declared length are
// ignored.
func Decode(data []byte) (*Packet, error) {
	if len(data) == 0 {
		return nil, ErrLength
	}
	p := &Packet{Type: FrameType(data[0] >> 4)}
	if p.Type != SingleFrame {
		return nil, ErrFrameType
	}
	l := int(data[0] & 0x0f)
	if l > MaxSingleFrameLen || l > len(data)-1 {
		return nil, ErrLength
	}
	p.Data = data[1 : l+1]
	return p, nil
}

// DecodeFrame parses the payload of a CAN frame.
func DecodeFrame(f can.Frame) (*Packet, error) {
	return Decode(f.Payload())
}

// Encode builds a single frame from payload.
func Encode(payload []byte) ([]byte, error) {
	p := Packet{Type: SingleFrame, Data: payload}
	return p.Bytes()
}

// Bytes returns encoded bytes for sending.
func (p *Packet) Bytes() ([]byte, error) {
	if p.Type > 0x0f {
		return nil, ErrFrameType
	}
	l := len(p.Data)
	if l > MaxSingleFrameLen {
		return nil, ErrLength
	}
	b := make([]byte, l+1)
	b[0] = byte(p.Type)<<4 | byte(l)
	copy(b[1:], p.Data)
	return b, nil
}

// Frame wraps the encoded packet in a CAN frame with the given identifier.
func (p *Packet) Frame(id uint32) (can.Frame, error) {
	b, err := p.Bytes()
	if err != nil {
		return can.Frame{}, err
	}
	return can.NewFrame(id, b)
}

// WriteTo writes encoded bytes.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	b, err := p.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
