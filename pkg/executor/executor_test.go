package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aliwirawan/dorklens/pkg/searcher"
)

// mockProvider replays scripted outcomes, one per call.
type mockProvider struct {
	outcomes []outcome
	calls    []call
}

type outcome struct {
	page *searcher.Page
	err  error
}

type call struct {
	start int
	num   int
}

func (m *mockProvider) FetchPage(ctx context.Context, query string, start, num int) (*searcher.Page, error) {
	m.calls = append(m.calls, call{start: start, num: num})

	if len(m.outcomes) == 0 {
		return &searcher.Page{}, nil
	}

	next := m.outcomes[0]
	m.outcomes = m.outcomes[1:]

	return next.page, next.err
}

func pageOf(startRank, n int) *searcher.Page {
	page := &searcher.Page{}

	for i := 0; i < n; i++ {
		page.Items = append(page.Items, searcher.Result{
			Title:   fmt.Sprintf("title %d", startRank+i),
			URL:     fmt.Sprintf("https://example.com/doc-%d", startRank+i),
			Snippet: "snippet",
		})
	}

	return page
}

func noBackoff(int) time.Duration {
	return 0
}

func TestRunPagesUntilTarget(t *testing.T) {
	mock := &mockProvider{
		outcomes: []outcome{
			{page: pageOf(1, 10)},
			{page: pageOf(11, 5)},
		},
	}

	e, err := New(mock, WithBackoff(noBackoff))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := e.Run(context.Background(), `site:example.com "x"`, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 15 {
		t.Fatalf("got %d results, want 15", len(results))
	}

	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d, want %d", i, r.Rank, i+1)
		}
	}

	if len(mock.calls) != 2 {
		t.Fatalf("got %d backend calls, want 2", len(mock.calls))
	}

	if mock.calls[0] != (call{start: 1, num: 10}) {
		t.Errorf("first call %+v", mock.calls[0])
	}

	if mock.calls[1] != (call{start: 11, num: 5}) {
		t.Errorf("second call %+v", mock.calls[1])
	}
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	mock := &mockProvider{
		outcomes: []outcome{
			{page: &searcher.Page{}},
		},
	}

	e, _ := New(mock, WithBackoff(noBackoff))

	results, err := e.Run(context.Background(), "q", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}

	if len(mock.calls) != 1 {
		t.Errorf("got %d backend calls, want 1", len(mock.calls))
	}
}

func TestRunStopsAtOffsetCeiling(t *testing.T) {
	var outcomes []outcome

	for i := 0; i < 12; i++ {
		outcomes = append(outcomes, outcome{page: pageOf(i*10+1, 10)})
	}

	mock := &mockProvider{outcomes: outcomes}

	e, _ := New(mock, WithBackoff(noBackoff))

	results, err := e.Run(context.Background(), "q", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// start offsets 1..91 make ten pages at most
	if len(mock.calls) != 10 {
		t.Errorf("got %d backend calls, want 10", len(mock.calls))
	}

	if len(results) != 100 {
		t.Errorf("got %d results, want 100", len(results))
	}
}

func TestRunRetriesTransientStatus(t *testing.T) {
	var delays []time.Duration

	mock := &mockProvider{
		outcomes: []outcome{
			{err: &searcher.StatusError{Code: 503, Message: "Service Unavailable"}},
			{err: &searcher.StatusError{Code: 503, Message: "Service Unavailable"}},
			{page: pageOf(1, 3)},
		},
	}

	e, _ := New(mock, WithRetries(3), WithBackoff(func(attempt int) time.Duration {
		d := time.Duration(attempt) * time.Millisecond
		delays = append(delays, d)
		return d
	}))

	results, err := e.Run(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}

	if len(mock.calls) != 3 {
		t.Errorf("got %d backend calls, want 3", len(mock.calls))
	}

	if len(delays) != 2 || delays[1] <= delays[0] {
		t.Errorf("backoff delays not increasing: %v", delays)
	}
}

func TestRunFailsFastOnQuota(t *testing.T) {
	mock := &mockProvider{
		outcomes: []outcome{
			{err: &searcher.StatusError{Code: 403, Message: "Quota exceeded for quota metric"}},
		},
	}

	e, _ := New(mock, WithRetries(3), WithBackoff(noBackoff))

	_, err := e.Run(context.Background(), "q", 10)
	if err == nil {
		t.Fatal("expected error")
	}

	if len(mock.calls) != 1 {
		t.Errorf("got %d backend calls, want 1 (no retries)", len(mock.calls))
	}

	var status *searcher.StatusError
	if !errors.As(err, &status) || status.Code != 403 {
		t.Errorf("unexpected error: %v", err)
	}

	if want := "HTTP 403: Quota exceeded for quota metric"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestRunFailsFastOnBlock(t *testing.T) {
	mock := &mockProvider{
		outcomes: []outcome{
			{err: &searcher.BlockedError{Reason: "captcha", Screenshot: "shots/blocked.png"}},
		},
	}

	e, _ := New(mock, WithRetries(3), WithBackoff(noBackoff))

	_, err := e.Run(context.Background(), "q", 10)

	var blocked *searcher.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Errorf("got %d backend calls, want 1", len(mock.calls))
	}
}

func TestRunWrapsExhaustedNetworkFaults(t *testing.T) {
	mock := &mockProvider{
		outcomes: []outcome{
			{err: errors.New("connection reset by peer")},
			{err: errors.New("connection reset by peer")},
			{err: errors.New("connection reset by peer")},
		},
	}

	e, _ := New(mock, WithRetries(3), WithBackoff(noBackoff))

	_, err := e.Run(context.Background(), "q", 10)
	if err == nil {
		t.Fatal("expected error")
	}

	if len(mock.calls) != 3 {
		t.Errorf("got %d backend calls, want 3", len(mock.calls))
	}

	if want := "network failure after 3 attempts: connection reset by peer"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestRunDeduplicatesOnNormalizedURL(t *testing.T) {
	page := &searcher.Page{
		Items: []searcher.Result{
			{Title: "a", URL: "http://x/?utm_source=a"},
			{Title: "b", URL: "http://x/"},
			{Title: "c", URL: "http://y/"},
		},
	}

	mock := &mockProvider{outcomes: []outcome{{page: page}}}

	e, _ := New(mock, WithBackoff(noBackoff))

	results, err := e.Run(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].URL != "http://x/" || results[0].Title != "a" {
		t.Errorf("first survivor wrong: %+v", results[0])
	}
}

func TestRunNeverExceedsTarget(t *testing.T) {
	// a misbehaving provider returning more items than asked
	mock := &mockProvider{outcomes: []outcome{{page: pageOf(1, 10)}}}

	e, _ := New(mock, WithBackoff(noBackoff))

	results, err := e.Run(context.Background(), "q", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil provider")
	}
}
