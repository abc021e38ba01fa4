// Package limiter throttles outbound backend calls. Every page fetch waits
// on a Waiter first, retries included.
package limiter

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Waiter blocks the calling goroutine before an outbound call.
type Waiter interface {
	Wait(ctx context.Context) error
}

type jitter struct {
	min time.Duration
	max time.Duration
}

// NewJitter returns a Waiter sleeping a uniformly random duration in
// [min, max] before each call. max below min is clamped to min.
func NewJitter(min, max time.Duration) Waiter {
	if max < min {
		max = min
	}

	return &jitter{min: min, max: max}
}

// NewFixed returns a Waiter sleeping exactly d before each call.
func NewFixed(d time.Duration) Waiter {
	return &jitter{min: d, max: d}
}

func (j *jitter) Wait(ctx context.Context) error {
	d := j.min

	if j.max > j.min {
		d += time.Duration(rand.Int63n(int64(j.max - j.min)))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		return nil
	}
}

type limited struct {
	limiter *rate.Limiter
}

// NewRate adapts a token-bucket limiter for configs declaring a
// requests-per-second budget instead of a sleep window.
func NewRate(l *rate.Limiter) Waiter {
	return &limited{limiter: l}
}

func (r *limited) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
