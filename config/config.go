// Package config builds the configured search engines from a YAML file or
// programmatic settings, including credentials, rate limits, and retry
// budgets. Credentials missing for a selected engine fail here, before any
// backend call is made.
package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/aliwirawan/dorklens/pkg/executor"
	"github.com/aliwirawan/dorklens/pkg/limiter"
	"github.com/aliwirawan/dorklens/pkg/searcher"

	"gopkg.in/yaml.v3"
)

type Config struct {
	logger *slog.Logger

	engines map[string]engine
}

type engine struct {
	provider searcher.Provider
	limiter  limiter.Waiter

	retries     int
	backoffBase float64
}

type configFile struct {
	Engines map[string]EngineConfig `yaml:"engines"`
}

// Parse loads a YAML config file and registers every engine it declares.
func Parse(path string, options ...Option) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var file configFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	if len(file.Engines) == 0 {
		return nil, errors.New("no engines configured")
	}

	c := newConfig(options...)

	for id, ec := range file.Engines {
		if err := c.registerEngine(id, ec); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// New registers a single engine from programmatic settings, the path taken
// when no config file is given and everything comes from CLI flags.
func New(id string, ec EngineConfig, options ...Option) (*Config, error) {
	c := newConfig(options...)

	if err := c.registerEngine(id, ec); err != nil {
		return nil, err
	}

	return c, nil
}

type Option func(*Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func newConfig(options ...Option) *Config {
	c := &Config{
		logger: slog.Default(),

		engines: make(map[string]engine),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Executor returns a ready paged-search executor for the engine id.
func (c *Config) Executor(id string) (*executor.Executor, error) {
	e, ok := c.engines[id]

	if !ok {
		return nil, errors.New("engine not found: " + id)
	}

	return executor.New(e.provider,
		executor.WithLimiter(e.limiter),
		executor.WithRetries(e.retries),
		executor.WithBackoffBase(e.backoffBase),
		executor.WithLogger(c.logger),
	)
}
