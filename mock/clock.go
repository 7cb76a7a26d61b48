package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/rriharvest"
)

var _ rriharvest.Clock = (*Clock)(nil)

// Clock is a mock implementation of rriharvest.Clock.
type Clock struct {
	NowFn   func() time.Time
	SleepFn func(ctx context.Context, d time.Duration) error
}

func (c *Clock) Now() time.Time {
	return c.NowFn()
}

func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	return c.SleepFn(ctx, d)
}

// NewVirtualClock returns a Clock whose time only moves when Sleep is called.
// The returned func reports the total time slept.
func NewVirtualClock(start time.Time) (*Clock, func() time.Duration) {
	var mu sync.Mutex
	now := start
	c := &Clock{
		NowFn: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
		SleepFn: func(ctx context.Context, d time.Duration) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if d > 0 {
				now = now.Add(d)
			}
			return nil
		},
	}
	elapsed := func() time.Duration {
		mu.Lock()
		defer mu.Unlock()
		return now.Sub(start)
	}
	return c, elapsed
}
