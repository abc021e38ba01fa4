package scrape

import (
	"time"
)

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithProxy(proxy string) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

func WithHeadless(headless bool) Option {
	return func(c *Client) {
		c.headless = headless
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithScreenshotDir(dir string) Option {
	return func(c *Client) {
		c.screenshotDir = dir
	}
}
