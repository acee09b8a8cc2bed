package app

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/bus"
	"github.com/robotalks/canclock/pkg/bus/mqtt"
	"github.com/robotalks/canclock/pkg/bus/stream"
	"github.com/robotalks/canclock/pkg/bus/websocket"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/framework"
)

// Endpoint is a connection to a host transported CAN bus.
type Endpoint struct {
	Port      *bus.Port
	Runnables []framework.Runnable
	Closers   []io.Closer
}

// Close closes the connection.
func (e *Endpoint) Close() error {
	var errs framework.AggregatedError
	for _, closer := range e.Closers {
		errs.Add(closer.Close())
	}
	e.Closers = nil
	return errs.Aggregate()
}

// OpenEndpoint connects node to the bus at busURL, any scheme but loop://.
// Nothing is received until the Runnables run.
func OpenEndpoint(busURL, node string) (*Endpoint, error) {
	u, err := url.Parse(busURL)
	if err != nil {
		return nil, err
	}
	e := &Endpoint{}
	var rw bus.PacketReadWriter
	switch u.Scheme {
	case "mqtt":
		q, err := ConnectMQTT(busURL, node)
		if err != nil {
			return nil, err
		}
		mrw := mqtt.NewPacketReadWriter(q, node)
		e.Closers = append(e.Closers, q)
		e.Runnables = append(e.Runnables, framework.NamedRun("mqtt-bus", mrw))
		rw = mrw
	case "serial", "tcp":
		if rw, err = stream.Open(u); err != nil {
			return nil, err
		}
	case "ws", "wss":
		if rw, err = websocket.Dial(busURL, "http://"+u.Host); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	e.Port = bus.NewPort(rw)
	e.Runnables = append(e.Runnables, framework.NamedRun("bus", e.Port))
	e.Closers = append(e.Closers, e.Port)
	return e, nil
}

// ConnectMQTT connects to the broker at brokerURL.
func ConnectMQTT(brokerURL, clientID string) (*mqtt.Queue, error) {
	q, err := mqtt.NewQueueFromURL(brokerURL, clientID)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	return q, nil
}

func (c *Context) setupBus() error {
	var buses can.Tee
	if u, err := url.Parse(c.Config.BusURL); err == nil && u.Scheme == "loop" {
		c.Loopback = &can.Loopback{}
		c.Loopback.Attach(c.Serial)
		buses = append(buses, c.Loopback)
	} else {
		e, err := OpenEndpoint(c.Config.BusURL, c.Config.Node)
		if err != nil {
			return fmt.Errorf("bus: %w", err)
		}
		e.Port.Handler = c.Serial
		c.runnables = append(c.runnables, e.Runnables...)
		c.closers = append(c.closers, e)
		buses = append(buses, c.sender("bus-tx", e.Port))
	}

	if addr := c.Config.ListenAddr; addr != "" {
		c.Gateway = websocket.NewGateway(c.Serial)
		path := c.Config.ListenPath
		c.goRun("gateway", framework.RunnableFunc(func(ctx context.Context) error {
			glog.Infof("websocket gateway on %s%s", addr, path)
			return c.Gateway.ListenAndServe(ctx, addr, path)
		}))
		buses = append(buses, c.sender("gateway-tx", c.Gateway))
	}

	if len(buses) == 1 {
		c.Bus = buses[0]
	} else {
		c.Bus = buses
	}
	glog.Infof("bus %s", c.Config.BusURL)
	return nil
}

// sender returns the non-blocking Bus transmitting through b.
func (c *Context) sender(name string, b can.Bus) can.Bus {
	s := bus.NewSender(b, 0)
	c.goRun(name, s)
	return s
}
