// Package urlx holds the URL hygiene applied to raw search hits: canonical
// form, target-domain scoping, and first-seen deduplication.
package urlx

import (
	"net/url"
	"strings"

	"github.com/aliwirawan/dorklens/pkg/searcher"
)

// trackingKeys are query parameters dropped during normalization.
var trackingKeys = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"yclid":        {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// Normalize canonicalizes a URL: the fragment is removed, known tracking
// parameters are dropped, and scheme and host are lowercased. Remaining query
// parameters keep their original order and encoding. Malformed input is
// returned unchanged.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return trimmed
	}

	u, err := url.Parse(trimmed)

	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""

	u.RawQuery = cleanQuery(u.RawQuery)

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	return u.String()
}

// cleanQuery removes tracking keys from a raw query string without touching
// the order or encoding of the surviving pairs. Blank values survive.
func cleanQuery(query string) string {
	if query == "" {
		return query
	}

	var kept []string

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}

		key := pair

		if i := strings.Index(pair, "="); i >= 0 {
			key = pair[:i]
		}

		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}

		if _, ok := trackingKeys[strings.ToLower(key)]; ok {
			continue
		}

		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

// InScope reports whether the URL's host is the target domain or one of its
// subdomains. Parse failures and empty hosts fail closed.
func InScope(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)

	if err != nil {
		return false
	}

	host := strings.ToLower(u.Host)
	target := strings.ToLower(strings.TrimSpace(domain))

	if host == "" || target == "" {
		return false
	}

	return host == target || strings.HasSuffix(host, "."+target)
}

// Dedup rewrites each URL to its normalized form and drops repeats, keeping
// the first occurrence. Records whose key normalizes to empty are unusable
// and dropped.
func Dedup(results []searcher.Result) []searcher.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]searcher.Result, 0, len(results))

	for i := range results {
		key := Normalize(results[i].URL)
		results[i].URL = key

		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, results[i])
	}

	return out
}
