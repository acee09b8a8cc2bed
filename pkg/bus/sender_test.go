package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/can"
)

func TestSenderQueuesFrames(t *testing.T) {
	sent := make(chan can.Frame, 4)
	s := NewSender(can.BusFunc(func(f can.Frame) error {
		sent <- f
		return nil
	}), 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	f, err := can.NewFrame(can.ReplyID, []byte{0x01, 0x55})
	require.NoError(t, err)
	require.NoError(t, s.Transmit(f))
	select {
	case got := <-sent:
		require.Equal(t, f, got)
	case <-time.After(5 * time.Second):
		t.Fatal("frame not sent")
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestSenderOverflow(t *testing.T) {
	s := NewSender(can.BusFunc(func(can.Frame) error { return nil }), 1)
	f := can.Frame{ID: can.ReplyID, Len: 2}
	require.NoError(t, s.Transmit(f))
	require.Equal(t, ErrTxOverflow, s.Transmit(f))
	require.Equal(t, uint64(1), s.Dropped())

	require.Equal(t, can.ErrInvalidLen, s.Transmit(can.Frame{ID: can.ReplyID, Len: 9}))
	require.Equal(t, uint64(1), s.Dropped())
}

func TestSenderCountsFailures(t *testing.T) {
	failed := make(chan struct{}, 1)
	s := NewSender(can.BusFunc(func(can.Frame) error {
		failed <- struct{}{}
		return errors.New("offline")
	}), 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.NoError(t, s.Transmit(can.Frame{ID: can.ReplyID, Len: 2}))
	<-failed
	for i := 0; s.Failed() == 0 && i < 5000; i++ {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, uint64(1), s.Failed())
}
