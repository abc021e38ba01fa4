package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		status int
		text   string
		want   bool
	}{
		{503, "", true},
		{429, "", true},
		{500, "", true},
		{502, "", true},
		{504, "", true},
		{404, "not found", false},
		{403, "forbidden", false},
		{0, "connection reset", true},
		{0, "request timeout", true},
		{0, "temporarily unavailable", true},
		{0, "invalid response", false},
	}

	for _, c := range cases {
		if got := ShouldRetry(c.status, c.text); got != c.want {
			t.Errorf("ShouldRetry(%d, %q) = %v, want %v", c.status, c.text, got, c.want)
		}
	}
}

func TestBackoffGrows(t *testing.T) {
	backoff := Backoff(1.6)

	// jitter tops out at 700ms, below the gap between consecutive attempts,
	// so delays are strictly increasing
	if a, b := backoff(1), backoff(2); b <= a {
		t.Errorf("backoff(2)=%v not above backoff(1)=%v", b, a)
	}

	if d := backoff(1); d < 1600*time.Millisecond {
		t.Errorf("backoff(1)=%v below base delay", d)
	}
}

func TestDo(t *testing.T) {
	always := func(error) bool { return true }
	never := func(error) bool { return false }

	t.Run("returns on first success", func(t *testing.T) {
		calls := 0

		err := Do(context.Background(), 3, noBackoff, always, func() error {
			calls++
			return nil
		})

		if err != nil || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("retries transient errors up to the budget", func(t *testing.T) {
		calls := 0

		err := Do(context.Background(), 3, noBackoff, always, func() error {
			calls++
			return errors.New("boom")
		})

		if err == nil || calls != 3 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("stops immediately on terminal errors", func(t *testing.T) {
		calls := 0

		err := Do(context.Background(), 3, noBackoff, never, func() error {
			calls++
			return errors.New("fatal")
		})

		if err == nil || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("recovers midway", func(t *testing.T) {
		calls := 0

		err := Do(context.Background(), 3, noBackoff, always, func() error {
			calls++
			if calls < 3 {
				return errors.New("boom")
			}
			return nil
		})

		if err != nil || calls != 3 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("aborts backoff wait on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Do(ctx, 3, func(int) time.Duration { return time.Minute }, always, func() error {
			return errors.New("boom")
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}
