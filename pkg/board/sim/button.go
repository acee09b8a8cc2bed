package sim

import (
	"bufio"
	"context"
	"io"
)

// Button raises the button interrupt on every line read from In.
type Button struct {
	In io.Reader
	// OnPress is the button interrupt handler.
	OnPress func()
}

// Press simulates a falling edge.
func (b *Button) Press() {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// Run reads In until it's exhausted or ctx is done. A read blocked on In
// when ctx is done is abandoned, no more presses are raised after that.
func (b *Button) Run(ctx context.Context) error {
	if b.In == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	errCh := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(b.In)
		for scanner.Scan() {
			if ctx.Err() != nil {
				break
			}
			b.Press()
		}
		errCh <- scanner.Err()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
