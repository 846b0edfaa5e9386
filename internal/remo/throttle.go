package remo

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/light"
)

type throttled struct {
	next    light.Emitter
	limiter *rate.Limiter
}

// Throttle keeps at least interval between pulses sent through next. The
// light misses presses that arrive too close together. A zero interval
// returns next unchanged.
func Throttle(next light.Emitter, interval time.Duration) light.Emitter {
	if interval <= 0 {
		return next
	}

	return &throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *throttled) Emit(ctx context.Context, cmd light.Command) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "wait to send %s", cmd)
	}

	return t.next.Emit(ctx, cmd)
}
