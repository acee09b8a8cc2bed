package can

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameValidate(t *testing.T) {
	testCases := []struct {
		name  string
		frame Frame
		err   error
	}{
		{"standard", Frame{ID: 0x7FF, Len: 8}, nil},
		{"extended", Frame{ID: 0x1FFFFFFF, Extended: true}, nil},
		{"std id too large", Frame{ID: 0x800}, ErrInvalidID},
		{"ext id too large", Frame{ID: 0x20000000, Extended: true}, ErrInvalidID},
		{"length", Frame{ID: 1, Len: 9}, ErrInvalidLen},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.err, tc.frame.Validate())
		})
	}
}

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(CommandID, []byte{4, 1, 23, 59, 50})
	require.NoError(t, err)
	require.Equal(t, uint8(5), f.Len)
	require.Equal(t, []byte{4, 1, 23, 59, 50}, f.Payload())
	require.False(t, f.Extended)
	require.Equal(t, "111#04 01 17 3B 32", f.String())

	_, err = NewFrame(CommandID, make([]byte, 9))
	require.Equal(t, ErrInvalidLen, err)

	f, err = NewFrame(0x12345, nil)
	require.NoError(t, err)
	require.True(t, f.Extended)
}

func TestFrameBinary(t *testing.T) {
	f := Frame{ID: ReplyID, Len: 2, Data: [8]byte{0x01, 0x55}}
	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x22, 0x01, 0, 0, 2, 0, 0, 0,
		0x01, 0x55, 0, 0, 0, 0, 0, 0,
	}, b)

	var decoded Frame
	require.NoError(t, decoded.UnmarshalBinary(b))
	require.Equal(t, f, decoded)

	ext := Frame{ID: 0x1ABCDEF, Extended: true, RTR: true}
	b, err = ext.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, byte(0xC1), b[3])
	require.NoError(t, decoded.UnmarshalBinary(b))
	require.Equal(t, ext, decoded)

	require.Error(t, decoded.UnmarshalBinary(b[:15]))
	_, err = Frame{ID: 1, Len: 9}.MarshalBinary()
	require.Equal(t, ErrInvalidLen, err)
}

func TestFilter(t *testing.T) {
	require.True(t, CommandFilter.Match(Frame{ID: 0x111}))
	require.False(t, CommandFilter.Match(Frame{ID: 0x112}))
	require.False(t, CommandFilter.Match(Frame{ID: 0x111, Extended: true}))
	require.False(t, CommandFilter.Match(Frame{ID: 0x111, RTR: true}))

	group := Filter{ID: 0x110, Mask: 0x7F0}
	require.True(t, group.Match(Frame{ID: 0x11F}))
	require.False(t, group.Match(Frame{ID: 0x120}))
}

func TestLoopback(t *testing.T) {
	var bus Loopback
	var got []Frame
	bus.Attach(HandleFrameFunc(func(f Frame) { got = append(got, f) }))
	bus.Attach(HandleFrameFunc(func(f Frame) { got = append(got, f) }))

	require.NoError(t, bus.Transmit(Frame{ID: ReplyID, Len: 1}))
	require.Len(t, got, 2)
	require.Equal(t, ErrInvalidID, bus.Transmit(Frame{ID: 0x800}))
	require.Len(t, got, 2)
}

func TestTee(t *testing.T) {
	var a, b []Frame
	failure := ErrClosed
	tee := Tee{
		BusFunc(func(f Frame) error { a = append(a, f); return nil }),
		BusFunc(func(Frame) error { return failure }),
		BusFunc(func(f Frame) error { b = append(b, f); return nil }),
	}
	f := Frame{ID: ReplyID, Len: 2}
	require.Equal(t, failure, tee.Transmit(f))
	require.Equal(t, []Frame{f}, a)
	require.Equal(t, []Frame{f}, b)
	require.NoError(t, Tee{}.Transmit(f))
}
