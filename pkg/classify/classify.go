// Package classify maps raw backend failure text to a coarse error kind.
package classify

import (
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	MissingCredentials
	QuotaExceeded
	InvalidCredentials
	RateLimited
	Timeout
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case MissingCredentials:
		return "ERR_MISSING_ENV"
	case QuotaExceeded:
		return "ERR_QUOTA_EXCEEDED"
	case InvalidCredentials:
		return "ERR_INVALID_KEY"
	case RateLimited:
		return "ERR_RATE_LIMIT"
	case Timeout:
		return "ERR_TIMEOUT"
	case Forbidden:
		return "ERR_FORBIDDEN"
	default:
		return "ERR_UNKNOWN"
	}
}

// Fatal reports whether the kind must stop the remaining batch: the caller
// either has no usable credentials or has burned its quota, so further
// queries only waste spend.
func (k Kind) Fatal() bool {
	switch k {
	case MissingCredentials, QuotaExceeded, InvalidCredentials:
		return true
	default:
		return false
	}
}

type rule struct {
	kind    Kind
	matches []string
}

// rules are evaluated top to bottom and the first hit wins. The order is
// load-bearing: a 403 body that mentions quota must classify as quota
// exhaustion (fatal for the batch), not as a generic forbidden.
var rules = []rule{
	{MissingCredentials, []string{"missing env", "required"}},
	{QuotaExceeded, []string{"quota", "daily limit", "limit exceeded"}},
	{InvalidCredentials, []string{"api key not valid", "invalid key", "bad api key"}},
	{RateLimited, []string{"http 429", "too many requests", "rate limit"}},
	{Timeout, []string{"timeout"}},
	{Forbidden, []string{"http 403", "forbidden"}},
}

// Classify maps free-text failure detail to a Kind. Matching is
// case-insensitive and deterministic for identical input.
func Classify(message string) Kind {
	m := strings.ToLower(message)

	for _, r := range rules {
		for _, s := range r.matches {
			if strings.Contains(m, s) {
				return r.kind
			}
		}
	}

	return Unknown
}
