// Package observe wraps a searcher.Provider with structured logging and
// emits the per-query summary record.
package observe

import (
	"context"
	"log/slog"
	"time"

	"github.com/aliwirawan/dorklens/pkg/searcher"

	"github.com/google/uuid"
)

type Observable interface {
	observeSetup()
}

type observedProvider struct {
	engine string
	logger *slog.Logger

	provider searcher.Provider
}

// NewProvider decorates p so every page fetch is logged with its engine,
// offsets, duration, and outcome.
func NewProvider(engine string, logger *slog.Logger, p searcher.Provider) searcher.Provider {
	if logger == nil {
		logger = slog.Default()
	}

	return &observedProvider{
		engine: engine,
		logger: logger,

		provider: p,
	}
}

func (p *observedProvider) observeSetup() {
}

func (p *observedProvider) FetchPage(ctx context.Context, query string, start, num int) (*searcher.Page, error) {
	started := time.Now()

	page, err := p.provider.FetchPage(ctx, query, start, num)

	attrs := []any{
		"engine", p.engine,
		"start", start,
		"num", num,
		"elapsed_ms", time.Since(started).Milliseconds(),
	}

	if err != nil {
		p.logger.Warn("page fetch", append(attrs, "error", err)...)
		return nil, err
	}

	p.logger.Debug("page fetch", append(attrs, "got", len(page.Items))...)

	return page, nil
}

// Summary is the log-worthy record of one logical query.
type Summary struct {
	Domain       string
	DetectedType string
	Dork         string
	Status       string
	ResultCount  int
	Elapsed      time.Duration
}

// LogSummary emits one summary line per logical query, tagged with a fresh
// run id so rows from retried batches stay distinguishable.
func LogSummary(logger *slog.Logger, s Summary) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("query summary",
		"query_id", uuid.NewString(),
		"domain", s.Domain,
		"detected_type", s.DetectedType,
		"dork", s.Dork,
		"status", s.Status,
		"result_count", s.ResultCount,
		"elapsed_ms", s.Elapsed.Milliseconds(),
	)
}
