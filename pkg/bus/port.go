package bus

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/framework"
)

// Port attaches to a CAN bus through a PacketReadWriter.
type Port struct {
	ReadWriter PacketReadWriter
	// Handler receives frames, it runs on the reading goroutine.
	Handler can.Handler

	sendLock sync.Mutex
	stats    PortStats
}

// PortStats counts frames through a Port.
type PortStats struct {
	Sent     uint64
	Received uint64
	Invalid  uint64
}

// NewPort creates a Port with given PacketReadWriter.
func NewPort(rw PacketReadWriter) *Port {
	return &Port{ReadWriter: rw}
}

// Transmit implements can.Bus.
func (p *Port) Transmit(f can.Frame) error {
	pkt, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	if err = p.ReadWriter.WritePacket(pkt); err == nil {
		atomic.AddUint64(&p.stats.Sent, 1)
		glog.V(2).Infof("TX %v", f)
	}
	return err
}

// Run implements framework.Runnable.
func (p *Port) Run(ctx context.Context) error {
	return framework.RunWithContextCloser(ctx, p, p.receive)
}

func (p *Port) receive() error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		var f can.Frame
		if err = f.UnmarshalBinary(pkt); err != nil {
			atomic.AddUint64(&p.stats.Invalid, 1)
			glog.Warningf("drop invalid frame: %v", err)
			continue
		}
		atomic.AddUint64(&p.stats.Received, 1)
		glog.V(2).Infof("RX %v", f)
		if h := p.Handler; h != nil {
			h.HandleFrame(f)
		}
	}
}

// Stats returns a snapshot of the counters.
func (p *Port) Stats() PortStats {
	return PortStats{
		Sent:     atomic.LoadUint64(&p.stats.Sent),
		Received: atomic.LoadUint64(&p.stats.Received),
		Invalid:  atomic.LoadUint64(&p.stats.Invalid),
	}
}

// Close implements io.Closer.
func (p *Port) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
