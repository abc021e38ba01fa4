package config

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aliwirawan/dorklens/pkg/limiter"
	"github.com/aliwirawan/dorklens/pkg/observe"
	"github.com/aliwirawan/dorklens/pkg/searcher"
	"github.com/aliwirawan/dorklens/pkg/searcher/cse"
	"github.com/aliwirawan/dorklens/pkg/searcher/scrape"

	"golang.org/x/time/rate"
)

type EngineConfig struct {
	Type string `yaml:"type"`

	// cse credentials; empty values fall back to GOOGLE_API_KEY and
	// GOOGLE_CSE_ID from the environment
	Key string `yaml:"key"`
	CX  string `yaml:"cx"`

	Endpoint string `yaml:"endpoint"`
	Proxy    string `yaml:"proxy"`

	UserAgent     string `yaml:"user_agent"`
	Headless      *bool  `yaml:"headless"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	// seconds
	Timeout  int     `yaml:"timeout"`
	SleepMin float64 `yaml:"sleep_min"`
	SleepMax float64 `yaml:"sleep_max"`

	// requests per second; set, it replaces the sleep window
	Rate float64 `yaml:"rate"`

	Retries     int     `yaml:"retries"`
	BackoffBase float64 `yaml:"backoff_base"`
}

func (ec *EngineConfig) defaults() {
	if ec.Timeout <= 0 {
		ec.Timeout = 20
	}

	if ec.SleepMin <= 0 {
		ec.SleepMin = 1.0
	}

	if ec.SleepMax <= 0 {
		ec.SleepMax = 2.0
	}

	if ec.Retries <= 0 {
		ec.Retries = 3
	}

	if ec.BackoffBase <= 0 {
		ec.BackoffBase = 1.6
	}
}

func (c *Config) registerEngine(id string, ec EngineConfig) error {
	ec.defaults()

	provider, err := createProvider(ec)

	if err != nil {
		return err
	}

	c.engines[id] = engine{
		provider: observe.NewProvider(id, c.logger, provider),
		limiter:  createLimiter(ec),

		retries:     ec.Retries,
		backoffBase: ec.BackoffBase,
	}

	return nil
}

func createProvider(ec EngineConfig) (searcher.Provider, error) {
	switch strings.ToLower(ec.Type) {

	case "cse":
		return cseProvider(ec)

	case "scrape":
		return scrapeProvider(ec)

	default:
		return nil, errors.New("invalid engine type: " + ec.Type)
	}
}

func cseProvider(ec EngineConfig) (searcher.Provider, error) {
	key := ec.Key
	cx := ec.CX

	if key == "" {
		key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}

	if cx == "" {
		cx = strings.TrimSpace(os.Getenv("GOOGLE_CSE_ID"))
	}

	options := []cse.Option{
		cse.WithClient(&http.Client{
			Timeout:   time.Duration(ec.Timeout) * time.Second,
			Transport: proxyTransport(ec.Proxy),
		}),
	}

	if ec.Endpoint != "" {
		options = append(options, cse.WithEndpoint(ec.Endpoint))
	}

	return cse.New(key, cx, options...)
}

func scrapeProvider(ec EngineConfig) (searcher.Provider, error) {
	options := []scrape.Option{
		scrape.WithTimeout(time.Duration(ec.Timeout) * time.Second),
	}

	if ec.Endpoint != "" {
		options = append(options, scrape.WithEndpoint(ec.Endpoint))
	}

	if ec.Proxy != "" {
		options = append(options, scrape.WithProxy(ec.Proxy))
	}

	if ec.UserAgent != "" {
		options = append(options, scrape.WithUserAgent(ec.UserAgent))
	}

	if ec.Headless != nil {
		options = append(options, scrape.WithHeadless(*ec.Headless))
	}

	if ec.ScreenshotDir != "" {
		options = append(options, scrape.WithScreenshotDir(ec.ScreenshotDir))
	}

	return scrape.New(options...)
}

func createLimiter(ec EngineConfig) limiter.Waiter {
	if ec.Rate > 0 {
		return limiter.NewRate(rate.NewLimiter(rate.Limit(ec.Rate), 1))
	}

	if ec.SleepMin == ec.SleepMax {
		return limiter.NewFixed(seconds(ec.SleepMin))
	}

	return limiter.NewJitter(seconds(ec.SleepMin), seconds(ec.SleepMax))
}

func proxyTransport(proxy string) http.RoundTripper {
	if proxy == "" {
		return nil
	}

	u, err := url.Parse(proxy)

	if err != nil {
		return nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(u)

	return transport
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
