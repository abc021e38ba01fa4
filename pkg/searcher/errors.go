package searcher

import (
	"fmt"
)

// StatusError is a backend-reported non-200 response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// BlockedError marks an anti-bot block detected by a scraping provider.
// Blocks are terminal for the query and never retried.
type BlockedError struct {
	Reason     string
	Screenshot string
}

func (e *BlockedError) Error() string {
	if e.Screenshot != "" {
		return fmt.Sprintf("blocked: %s (screenshot=%s)", e.Reason, e.Screenshot)
	}

	return "blocked: " + e.Reason
}
