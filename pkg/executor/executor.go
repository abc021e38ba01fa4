// Package executor turns one logical query into a sequence of backend page
// calls: it rate-limits and retries each call, pages until the target count
// is reached or the backend runs dry, and post-processes the collected hits.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aliwirawan/dorklens/pkg/limiter"
	"github.com/aliwirawan/dorklens/pkg/searcher"
	"github.com/aliwirawan/dorklens/pkg/urlx"
)

const (
	// pageSize is the backend's per-call result cap.
	pageSize = 10

	// maxStart is the highest start offset the backend serves (100 results).
	maxStart = 91
)

type Executor struct {
	provider searcher.Provider
	limiter  limiter.Waiter
	logger   *slog.Logger

	retries int
	backoff func(attempt int) time.Duration
}

type Option func(*Executor)

func WithLimiter(w limiter.Waiter) Option {
	return func(e *Executor) {
		e.limiter = w
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

func WithRetries(n int) Option {
	return func(e *Executor) {
		e.retries = n
	}
}

func WithBackoffBase(base float64) Option {
	return func(e *Executor) {
		e.backoff = Backoff(base)
	}
}

func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(e *Executor) {
		e.backoff = fn
	}
}

func New(p searcher.Provider, options ...Option) (*Executor, error) {
	if p == nil {
		return nil, errors.New("invalid provider")
	}

	e := &Executor{
		provider: p,
		logger:   slog.Default(),

		retries: 3,
		backoff: Backoff(1.6),
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

// Run executes one logical query, paging until total results are collected,
// the backend returns an empty page, or the next start offset would pass the
// backend's ceiling. Ranks are 1-based and continue across pages. On success
// the hits are deduplicated on their normalized URL. Any page failing its
// retry budget fails the whole query.
func (e *Executor) Run(ctx context.Context, query string, total int) ([]searcher.Result, error) {
	if total < 1 {
		total = 1
	}

	var results []searcher.Result

	start := 1
	rank := 1

	for len(results) < total {
		num := min(pageSize, total-len(results))

		page, err := e.fetchPage(ctx, query, start, num)

		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if len(results) == total {
				break
			}

			item.Rank = rank
			results = append(results, item)
			rank++
		}

		e.logger.Debug("page ok", "query", query, "start", start, "got", len(page.Items))

		if len(page.Items) == 0 {
			break
		}

		start += pageSize

		if start > maxStart {
			break
		}
	}

	return urlx.Dedup(results), nil
}

// fetchPage performs one page call under the rate limiter with bounded
// retries. Backend-reported statuses retry only when transient; network
// faults retry on the same budget and are wrapped when it runs out.
func (e *Executor) fetchPage(ctx context.Context, query string, start, num int) (*searcher.Page, error) {
	var page *searcher.Page

	attempt := 0

	err := Do(ctx, e.retries, e.backoff, retryable, func() error {
		attempt++

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		p, err := e.provider.FetchPage(ctx, query, start, num)

		if err != nil {
			e.logger.Warn("page fetch failed", "query", query, "start", start, "attempt", attempt, "retries", e.retries, "error", err)
			return err
		}

		page = p
		return nil
	})

	if err != nil {
		var status *searcher.StatusError
		var blocked *searcher.BlockedError

		if !errors.As(err, &status) && !errors.As(err, &blocked) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("network failure after %d attempts: %w", attempt, err)
		}

		return nil, err
	}

	return page, nil
}

// retryable decides transience for one failed attempt. Blocks are terminal,
// backend statuses go through the transient-status set, and everything else
// is judged on connection or timeout phrasing.
func retryable(err error) bool {
	var blocked *searcher.BlockedError

	if errors.As(err, &blocked) {
		return false
	}

	var status *searcher.StatusError

	if errors.As(err, &status) {
		return ShouldRetry(status.Code, status.Message)
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return ShouldRetry(0, err.Error())
}
