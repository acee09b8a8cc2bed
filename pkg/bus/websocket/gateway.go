package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/canclock/pkg/bus"
	"github.com/robotalks/canclock/pkg/can"
)

// Gateway exposes a bus segment to websocket clients. Frames from any
// client go to Handler, transmitted frames go to every client.
type Gateway struct {
	Handler can.Handler

	ports map[*bus.Port]struct{}
	lock  sync.RWMutex
}

// NewGateway creates a Gateway.
func NewGateway(h can.Handler) *Gateway {
	return &Gateway{Handler: h, ports: make(map[*bus.Port]struct{})}
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(g.serveConn).ServeHTTP(w, r)
}

func (g *Gateway) serveConn(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	port := bus.NewPort(New(conn))
	port.Handler = g.Handler
	g.lock.Lock()
	g.ports[port] = struct{}{}
	g.lock.Unlock()
	glog.Infof("websocket client %s connected", conn.Request().RemoteAddr)

	err := port.Run(conn.Request().Context())

	g.lock.Lock()
	delete(g.ports, port)
	g.lock.Unlock()
	glog.Infof("websocket client %s disconnected: %v", conn.Request().RemoteAddr, err)
}

// Clients returns the number of connected clients.
func (g *Gateway) Clients() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.ports)
}

// Transmit implements can.Bus. Clients failing to receive are logged and
// skipped.
func (g *Gateway) Transmit(f can.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	g.lock.RLock()
	ports := make([]*bus.Port, 0, len(g.ports))
	for port := range g.ports {
		ports = append(ports, port)
	}
	g.lock.RUnlock()
	for _, port := range ports {
		if err := port.Transmit(f); err != nil {
			glog.Warningf("websocket transmit: %v", err)
		}
	}
	return nil
}

// ListenAndServe serves the gateway on addr at path until ctx is done.
func (g *Gateway) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, g)
	server := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		server.Close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
