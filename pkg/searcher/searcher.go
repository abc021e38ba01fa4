package searcher

import (
	"context"
)

// Provider fetches a single page of search results for a query. start is the
// 1-based offset of the first result, num the requested page size (1..10).
// Implementations report backend-rejected calls as *StatusError and anti-bot
// blocks as *BlockedError; anything else is treated as a network-level fault.
type Provider interface {
	FetchPage(ctx context.Context, query string, start, num int) (*Page, error)
}

// Page is the raw payload of one backend call. Ranks are assigned by the
// caller, not the provider.
type Page struct {
	Items []Result
}

// Result is one ranked hit for a query.
type Result struct {
	Rank int

	Title   string
	URL     string
	Snippet string
}
