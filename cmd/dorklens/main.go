package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aliwirawan/dorklens/config"
	"github.com/aliwirawan/dorklens/pkg/classify"
	"github.com/aliwirawan/dorklens/pkg/detect"
	"github.com/aliwirawan/dorklens/pkg/dork"
	"github.com/aliwirawan/dorklens/pkg/observe"
	"github.com/aliwirawan/dorklens/pkg/report"
	"github.com/aliwirawan/dorklens/pkg/urlx"
)

type flags struct {
	input       string
	domainsFile string

	configFile string
	engine     string

	maxResults int
	retries    int
	timeout    int
	sleepMin   float64
	sleepMax   float64
	proxy      string
	headless   bool

	limit      int
	execLimit  int
	typeFilter string

	dryRun  bool
	verbose bool

	output  string
	results string
}

// task is one dork to execute, tagged with its provenance.
type task struct {
	domain   string
	value    string
	detected detect.Type
	dork     string
}

func main() {
	var f flags

	flag.StringVar(&f.input, "i", "input_pii.txt", "PII input file, one value per line")
	flag.StringVar(&f.input, "input", "input_pii.txt", "PII input file, one value per line")
	flag.StringVar(&f.domainsFile, "d", "domains.txt", "domains list, one domain per line")
	flag.StringVar(&f.domainsFile, "domains-file", "domains.txt", "domains list, one domain per line")

	flag.StringVar(&f.configFile, "config", "", "YAML config file declaring engines")
	flag.StringVar(&f.engine, "engine", "cse", "executor engine: cse or scrape")

	flag.IntVar(&f.maxResults, "max-results", 5, "max results per query (paged beyond 10)")
	flag.IntVar(&f.retries, "retries", 3, "retry budget per page fetch")
	flag.IntVar(&f.timeout, "timeout", 20, "per-call timeout in seconds")
	flag.Float64Var(&f.sleepMin, "sleep-min", 1.2, "min delay between calls in seconds")
	flag.Float64Var(&f.sleepMax, "sleep-max", 2.8, "max delay between calls in seconds")
	flag.StringVar(&f.proxy, "proxy", "", "outbound [protocol://]host[:port] proxy")
	flag.BoolVar(&f.headless, "headless", true, "run the scrape engine without a visible browser")

	flag.IntVar(&f.limit, "limit", 0, "process at most N input values (0 = all)")
	flag.IntVar(&f.execLimit, "exec-limit", 0, "execute at most N dorks (0 = all)")
	flag.StringVar(&f.typeFilter, "filter", "", "only process the given detected types (comma-separated)")

	flag.BoolVar(&f.dryRun, "dry-run", false, "print and save dork templates without executing")
	flag.BoolVar(&f.verbose, "v", false, "verbose logging")
	flag.BoolVar(&f.verbose, "verbose", false, "verbose logging")

	flag.StringVar(&f.output, "o", "", "optional path to save generated dork templates")
	flag.StringVar(&f.output, "output", "", "optional path to save generated dork templates")
	flag.StringVar(&f.results, "results", "results.csv", "results output path (.csv or .xlsx)")

	flag.Parse()

	level := slog.LevelInfo

	if f.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, f, logger); err != nil {
		logger.Error("dorklens failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, logger *slog.Logger) error {
	values, err := readLines(f.input)

	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if len(values) == 0 {
		return fmt.Errorf("no PII inputs found in %s", f.input)
	}

	domains, err := readLines(f.domainsFile)

	if err != nil {
		return fmt.Errorf("read domains: %w", err)
	}

	if len(domains) == 0 {
		return fmt.Errorf("no domains found in %s", f.domainsFile)
	}

	for _, d := range domains {
		if !dork.ValidDomain(d) {
			logger.Warn("domain looks invalid, processing anyway", "domain", d)
		}
	}

	tasks := buildTasks(values, domains, f)

	if f.output != "" {
		if err := saveTemplates(f.output, tasks); err != nil {
			return fmt.Errorf("save templates: %w", err)
		}

		logger.Info("templates saved", "path", f.output, "count", len(tasks))
	}

	if f.dryRun {
		for _, t := range tasks {
			fmt.Printf("%s (detected_type=%s) @ %s\n  %s\n", t.value, t.detected, t.domain, t.dork)
		}

		logger.Info("dry-run: no queries executed", "dorks", len(tasks))
		return nil
	}

	cfg, err := loadConfig(f, logger)

	if err != nil {
		return err
	}

	exec, err := cfg.Executor(f.engine)

	if err != nil {
		return err
	}

	sink, err := report.New(f.results)

	if err != nil {
		return fmt.Errorf("open results sink: %w", err)
	}

	defer sink.Close()

	if f.execLimit > 0 && f.execLimit < len(tasks) {
		tasks = tasks[:f.execLimit]
	}

	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()

		results, err := exec.Run(ctx, t.dork, f.maxResults)

		if err != nil {
			kind := classify.Classify(err.Error())

			observe.LogSummary(logger, observe.Summary{
				Domain:       t.domain,
				DetectedType: string(t.detected),
				Dork:         t.dork,
				Status:       kind.String(),
				Elapsed:      time.Since(started),
			})

			row := report.Row{
				Domain:         t.domain,
				Value:          t.value,
				DetectedType:   string(t.detected),
				Dork:           t.dork,
				Rank:           report.SentinelRank,
				SnippetOrError: fmt.Sprintf("%s: %s", kind, err),
			}

			if werr := sink.Write(row); werr != nil {
				return werr
			}

			// burned quota means every further query is wasted spend
			if kind == classify.QuotaExceeded {
				return errors.New("daily quota exhausted, aborting remaining batch")
			}

			continue
		}

		count := 0

		for _, r := range results {
			if !urlx.InScope(r.URL, t.domain) {
				logger.Debug("dropping out-of-scope hit", "url", r.URL, "domain", t.domain)
				continue
			}

			row := report.Row{
				Domain:         t.domain,
				Value:          t.value,
				DetectedType:   string(t.detected),
				Dork:           t.dork,
				Rank:           r.Rank,
				Title:          r.Title,
				URL:            r.URL,
				SnippetOrError: r.Snippet,
			}

			if err := sink.Write(row); err != nil {
				return err
			}

			count++
		}

		observe.LogSummary(logger, observe.Summary{
			Domain:       t.domain,
			DetectedType: string(t.detected),
			Dork:         t.dork,
			Status:       "OK",
			ResultCount:  count,
			Elapsed:      time.Since(started),
		})
	}

	logger.Info("batch done", "results_path", f.results, "dorks", len(tasks))

	return nil
}

func buildTasks(values, domains []string, f flags) []task {
	if f.limit > 0 && f.limit < len(values) {
		values = values[:f.limit]
	}

	var allowed map[string]struct{}

	if f.typeFilter != "" {
		allowed = make(map[string]struct{})

		for _, t := range strings.Split(f.typeFilter, ",") {
			if t = strings.TrimSpace(t); t != "" {
				allowed[t] = struct{}{}
			}
		}
	}

	var tasks []task

	for _, value := range values {
		detected := detect.Detect(value)

		if allowed != nil {
			if _, ok := allowed[string(detected)]; !ok {
				continue
			}
		}

		for _, domain := range domains {
			for _, q := range dork.ForDomain(domain, value, detected) {
				tasks = append(tasks, task{
					domain:   domain,
					value:    value,
					detected: detected,
					dork:     q,
				})
			}
		}
	}

	return tasks
}

func loadConfig(f flags, logger *slog.Logger) (*config.Config, error) {
	if f.configFile != "" {
		return config.Parse(f.configFile, config.WithLogger(logger))
	}

	headless := f.headless

	return config.New(f.engine, config.EngineConfig{
		Type: f.engine,

		Proxy:    f.proxy,
		Headless: &headless,

		Timeout:  f.timeout,
		SleepMin: f.sleepMin,
		SleepMax: f.sleepMax,
		Retries:  f.retries,
	}, config.WithLogger(logger))
}
