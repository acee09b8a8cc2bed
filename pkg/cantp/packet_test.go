package cantp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/can"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		expect []byte
		err    error
	}{
		{"time", []byte{0x04, 1, 23, 59, 50}, []byte{1, 23, 59, 50}, nil},
		{"trailing bytes", []byte{0x03, 3, 20, 0, 0xff, 0xff}, []byte{3, 20, 0}, nil},
		{"no data", []byte{0x00}, []byte{}, nil},
		{"max", []byte{0x07, 1, 2, 3, 4, 5, 6, 7}, []byte{1, 2, 3, 4, 5, 6, 7}, nil},
		{"first frame", []byte{0x10, 0x08, 1, 2, 3, 4, 5, 6}, nil, ErrFrameType},
		{"flow control", []byte{0x30, 0, 0}, nil, ErrFrameType},
		{"too long", []byte{0x08, 1, 2, 3, 4, 5, 6, 7}, nil, ErrLength},
		{"truncated", []byte{0x05, 2, 29, 2}, nil, ErrLength},
		{"empty", nil, nil, ErrLength},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode(tc.data)
			if tc.err != nil {
				require.Equal(t, tc.err, err)
				require.Nil(t, p)
				return
			}
			require.NoError(t, err)
			require.Equal(t, SingleFrame, p.Type)
			require.Equal(t, tc.expect, p.Data)
		})
	}
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		packet Packet
		expect []byte
		err    error
	}{
		{"ok reply", Packet{Data: []byte{0x55}}, []byte{0x01, 0x55}, nil},
		{"error reply", Packet{Data: []byte{0xAA}}, []byte{0x01, 0xAA}, nil},
		{"no data", Packet{}, []byte{0x00}, nil},
		{"date", Packet{Data: []byte{2, 29, 2, 0x07, 0xE8}}, []byte{0x05, 2, 29, 2, 0x07, 0xE8}, nil},
		{"too long", Packet{Data: make([]byte, 8)}, nil, ErrLength},
		{"bad type", Packet{Type: 0x10}, nil, ErrFrameType},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.packet.Bytes()
			require.Equal(t, tc.err, err)
			require.Equal(t, tc.expect, b)
			if tc.err != nil {
				return
			}
			var buf bytes.Buffer
			n, err := tc.packet.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.Equal(t, int64(len(tc.expect)), n)
		})
	}
}

func TestFrame(t *testing.T) {
	b, err := Encode([]byte{0x55})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x55}, b)

	p := Packet{Data: []byte{3, 20, 0}}
	f, err := p.Frame(can.CommandID)
	require.NoError(t, err)
	require.Equal(t, can.CommandID, f.ID)
	require.Equal(t, []byte{0x03, 3, 20, 0}, f.Payload())

	decoded, err := DecodeFrame(f)
	require.NoError(t, err)
	require.Equal(t, p.Data, decoded.Data)
}
