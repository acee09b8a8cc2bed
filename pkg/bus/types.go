// Package bus carries CAN frames over host transports.
//
// Frames travel as packets holding the SocketCAN can_frame layout, see
// can.Frame.MarshalBinary.
package bus

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
