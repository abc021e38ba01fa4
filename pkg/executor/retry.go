package executor

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"
)

// transientStatus are the HTTP codes worth retrying.
var transientStatus = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

// ShouldRetry reports whether a failure with the given status code (0 when
// none) and error text is transient. Anything else is terminal.
func ShouldRetry(status int, errText string) bool {
	if _, ok := transientStatus[status]; ok {
		return true
	}

	t := strings.ToLower(errText)

	return strings.Contains(t, "timeout") ||
		strings.Contains(t, "temporar") ||
		strings.Contains(t, "connection")
}

// Backoff returns the exponential delay function base^attempt seconds plus
// up to 700ms of random jitter.
func Backoff(base float64) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		d := time.Duration(math.Pow(base, float64(attempt)) * float64(time.Second))
		return d + time.Duration(rand.Int63n(int64(700*time.Millisecond)))
	}
}

// Do runs fn up to attempts times, sleeping backoff(attempt) between tries.
// A non-transient error aborts immediately; the last error is returned once
// the budget is spent. Both the page-fetch and network-fault retry paths go
// through here.
func Do(ctx context.Context, attempts int, backoff func(attempt int) time.Duration, transient func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if !transient(err) || attempt == attempts {
			return err
		}

		if werr := wait(ctx, backoff(attempt)); werr != nil {
			return werr
		}
	}

	return err
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		return nil
	}
}
