// internal/sequencer/hold.go
package sequencer

import (
	"context"
	"time"
)

// Holder performs the blocking waits between actuation steps.
type Holder interface {
	Hold(ctx context.Context, d time.Duration) error
}

// HoldFunc adapts a function to Holder.
type HoldFunc func(ctx context.Context, d time.Duration) error

func (f HoldFunc) Hold(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerHold waits on a real timer and returns early with ctx.Err() on cancel.
var TimerHold Holder = HoldFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})
