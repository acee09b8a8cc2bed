package mqtt

import (
	"context"
	"io"
)

// FramesTopic is the topic tree of the virtual bus. Each node publishes to
// FramesTopic/<node> and receives from every other node.
const FramesTopic = "can"

// ReadWriter implements bus.PacketReadWriter.
type ReadWriter struct {
	Queue *Queue
	Node  string

	packetCh chan []byte
	done     chan struct{}
}

// NewPacketReadWriter creates the ReadWriter for node.
func NewPacketReadWriter(q *Queue, node string) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		Node:     node,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// PubTopic is the topic the node publishes to.
func (p *ReadWriter) PubTopic() string {
	return FramesTopic + "/" + p.Node
}

// ReadPacket implements bus.PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements bus.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic(), pkt)
	token.Wait()
	return token.Error()
}

// Run subscribes to the bus until ctx is done.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.SubWith(FramesTopic+"/+", SubOptions{SkipRetained: true}, p.handleMsg)
	defer sub.Close()
	defer close(p.done)
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(topic string, payload []byte) {
	if topic == p.PubTopic() {
		return
	}
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}
