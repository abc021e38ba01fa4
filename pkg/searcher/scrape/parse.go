package scrape

import (
	"strings"

	"github.com/aliwirawan/dorklens/pkg/searcher"

	"github.com/PuerkitoBio/goquery"
)

// blockKeywords flag interstitials and CAPTCHA walls.
var blockKeywords = []string{
	"unusual traffic",
	"detected unusual",
	"verify you are human",
	"captcha",
	"/sorry/",
}

func blockReason(html string) (string, bool) {
	src := strings.ToLower(html)

	for _, k := range blockKeywords {
		if strings.Contains(src, k) {
			return k, true
		}
	}

	return "", false
}

// resultSelectors are tried in order; the SERP markup shifts between result
// container classes over time.
var resultSelectors = []string{
	"div.g",
	".MjjYud",
	"#rso > div",
}

func parsePage(html string, num int) (*searcher.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	if err != nil {
		return nil, err
	}

	page := &searcher.Page{}

	for _, selector := range resultSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if len(page.Items) >= num {
				return false
			}

			title := strings.TrimSpace(s.Find("h3").First().Text())
			href := strings.TrimSpace(s.Find("a[href]").First().AttrOr("href", ""))

			if title == "" || !strings.HasPrefix(href, "http") {
				return true
			}

			snippet := strings.TrimSpace(s.Find(".VwiC3b").First().Text())

			if snippet == "" {
				snippet = strings.TrimSpace(s.Text())
			}

			page.Items = append(page.Items, searcher.Result{
				Title:   title,
				URL:     href,
				Snippet: snippet,
			})

			return true
		})

		if len(page.Items) > 0 {
			break
		}
	}

	return page, nil
}
