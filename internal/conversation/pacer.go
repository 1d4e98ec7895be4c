package conversation

import (
	"context"
	"time"
)

// Pacer spaces out bot messages so they read like typing. A zero delay
// disables pacing.
type Pacer struct {
	Delay time.Duration
}

// Wait sleeps for factor times the configured delay. It returns early when
// ctx is done; the caller carries on either way so the transcript keeps its
// order.
func (p Pacer) Wait(ctx context.Context, factor float64) {
	d := time.Duration(float64(p.Delay) * factor)
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
