package stream

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the serial line speed unless specified.
const DefaultBaud = 115200

// OpenSerial opens a serial device.
func OpenSerial(name string, baud int) (*ReadWriter, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return New(port), nil
}

// Open opens a stream from URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	tcp://host:port
func Open(u *url.URL) (*ReadWriter, error) {
	switch u.Scheme {
	case "serial":
		baud := DefaultBaud
		if val := u.Query().Get("baud"); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("invalid baud %q: %w", val, err)
			}
			baud = n
		}
		return OpenSerial(u.Path, baud)
	case "tcp":
		conn, err := net.DialTimeout("tcp", u.Host, 5*time.Second)
		if err != nil {
			return nil, err
		}
		return New(conn), nil
	}
	return nil, fmt.Errorf("unsupported stream scheme %q", u.Scheme)
}
