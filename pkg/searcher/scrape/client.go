// Package scrape fetches result pages from the public SERP with a headless
// browser. It honors the same page-fetch contract as the JSON API provider;
// anti-bot blocks surface as a terminal BlockedError with a screenshot for
// diagnosis.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aliwirawan/dorklens/pkg/searcher"

	"github.com/chromedp/chromedp"
)

var _ searcher.Provider = &Client{}

const defaultEndpoint = "https://www.google.com/search"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

type Client struct {
	endpoint  string
	userAgent string
	proxy     string

	headless bool
	timeout  time.Duration

	screenshotDir string
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		endpoint:  defaultEndpoint,
		userAgent: defaultUserAgent,

		headless: true,
		timeout:  15 * time.Second,

		screenshotDir: "screenshots",
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) FetchPage(ctx context.Context, query string, start, num int) (*searcher.Page, error) {
	u, err := url.Parse(c.endpoint)

	if err != nil {
		return nil, err
	}

	values := u.Query()
	values.Set("q", query)
	values.Set("num", strconv.Itoa(num))

	// the SERP counts offsets from 0
	if start > 1 {
		values.Set("start", strconv.Itoa(start-1))
	}

	u.RawQuery = values.Encode()

	html, shot, err := c.render(ctx, u.String())

	if err != nil {
		return nil, err
	}

	if reason, blocked := blockReason(html); blocked {
		return nil, &searcher.BlockedError{
			Reason:     reason,
			Screenshot: c.saveScreenshot(shot),
		}
	}

	return parsePage(html, num)
}

// render loads the page in a fresh headless browser and returns its DOM
// serialization plus a screenshot for block diagnostics.
func (c *Client) render(ctx context.Context, pageURL string) (string, []byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(c.userAgent),
	)

	if c.proxy != "" {
		opts = append(opts, chromedp.ProxyServer(c.proxy))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.timeout)
	defer cancel()

	var html string
	var shot []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
		chromedp.CaptureScreenshot(&shot),
	)

	if err != nil {
		return "", nil, err
	}

	return html, shot, nil
}

// saveScreenshot writes the block evidence to the diagnostics directory and
// returns its path, or empty when nothing could be written.
func (c *Client) saveScreenshot(shot []byte) string {
	if len(shot) == 0 || c.screenshotDir == "" {
		return ""
	}

	if err := os.MkdirAll(c.screenshotDir, 0o755); err != nil {
		return ""
	}

	name := filepath.Join(c.screenshotDir, fmt.Sprintf("blocked_%s.png", time.Now().Format("20060102_150405")))

	if err := os.WriteFile(name, shot, 0o644); err != nil {
		return ""
	}

	return name
}
