package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/crawlonce"
	"github.com/fwojciec/crawlonce/bloom"
	"github.com/fwojciec/crawlonce/crawl"
	"github.com/fwojciec/crawlonce/dedup"
	"github.com/fwojciec/crawlonce/fs"
	"github.com/fwojciec/crawlonce/goquery"
	crawlhttp "github.com/fwojciec/crawlonce/http"
	crawlprom "github.com/fwojciec/crawlonce/prometheus"
	crawlslog "github.com/fwojciec/crawlonce/slog"
	"github.com/fwojciec/crawlonce/xxhash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// bloomFalsePositiveRate is the target error rate for the bloom seen-set.
const bloomFalsePositiveRate = 0.001

// CLI defines the command-line interface structure for Kong.
// Every flag can also be set through a CRAWLONCE_* environment variable.
type CLI struct {
	URLs        []string      `arg:"" name:"url" help:"URLs to crawl (repeats are deduplicated; order is kept only with -c 1)"`
	Filter      []string      `short:"f" help:"Only deduplicate URLs matching regex (repeatable)"`
	Exclude     []string      `help:"Never deduplicate URLs matching regex (repeatable)"`
	IgnoreQuery bool          `short:"q" help:"Treat URLs that differ only in query string as one resource"`
	Seen        string        `enum:"map,hash,bloom" default:"map" help:"Seen-set backend: map, hash or bloom"`
	BloomSize   uint          `default:"100000" help:"Expected number of URLs for the bloom backend"`
	Walk        bool          `short:"w" help:"Follow same-host links from each URL"`
	Sitemap     bool          `help:"Seed the crawl from each URL's sitemap"`
	MaxPages    int           `default:"1000" help:"Maximum crawl attempts per walk"`
	Concurrency int           `short:"c" default:"10" help:"Concurrent fetch limit"`
	Rate        float64       `default:"0" help:"Requests per second per host (0 disables limiting)"`
	Burst       int           `default:"1" help:"Requests per host allowed back to back under --rate"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Verbose     bool          `short:"v" help:"Log crawl decisions and fetches to stderr"`
	Metrics     bool          `help:"Print decision counters after the crawl"`
	Out         string        `short:"o" type:"path" help:"Save fetched pages under this directory (replaced atomically)"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Crawler  *crawl.Crawler
	Sitemaps crawlonce.SitemapService
	Registry *prometheus.Registry // nil unless metrics are enabled
}

// Close releases the crawler's fetcher.
func (d *Dependencies) Close() error {
	return d.Crawler.Fetcher.Close()
}

func (m *Main) wire(ctx context.Context, cli *CLI, stdout, stderr io.Writer) (*Dependencies, error) {
	urlFilter, err := crawlonce.ParseURLFilter(cli.Filter, cli.Exclude)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", crawlonce.ErrorMessage(err))
		return nil, err
	}

	if cli.Seen == "bloom" && cli.BloomSize == 0 {
		err := crawlonce.Errorf(crawlonce.EINVALID, "--bloom-size must be at least 1")
		fmt.Fprintf(stderr, "error: %s\n", crawlonce.ErrorMessage(err))
		return nil, err
	}

	cfg := dedup.Config{
		IgnoreQuery: cli.IgnoreQuery,
		Seen:        newSeenSet(cli.Seen, cli.BloomSize),
	}
	if urlFilter != nil {
		cfg.FilterURL = urlFilter.Match
	}
	filter := dedup.NewFilter(cfg)
	filter.Enable()

	var fetcher crawlonce.Fetcher = crawlhttp.NewFetcher(crawlhttp.WithTimeout(cli.Timeout))
	var sitemaps crawlonce.SitemapService = crawlhttp.NewSitemapService(nil)

	crawler := crawl.NewCrawler(nil)
	crawler.Links = goquery.NewLinkExtractor()
	crawler.Concurrency = cli.Concurrency
	crawler.MaxPages = cli.MaxPages
	crawler.RetryDelays = m.RetryDelays
	if cli.Rate > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(cli.Rate, crawl.WithBurst(cli.Burst))
	}

	var plugin crawlonce.Plugin = filter

	var registry *prometheus.Registry
	if cli.Metrics {
		registry = prometheus.NewRegistry()
		if plugin, err = crawlprom.NewMetricsPlugin(plugin, registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil)).With("session", crawler.SessionID())
		plugin = crawlslog.NewLoggingPlugin(plugin, logger)
		fetcher = crawlslog.NewLoggingFetcher(fetcher, logger)
		sitemaps = crawlslog.NewLoggingSitemapService(sitemaps, logger)
		crawler.RetryLog = func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}
	}

	crawler.Fetcher = fetcher
	crawler.AddPlugin(plugin)

	return &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Crawler:  crawler,
		Sitemaps: sitemaps,
		Registry: registry,
	}, nil
}

func newSeenSet(kind string, bloomSize uint) crawlonce.SeenSet {
	switch kind {
	case "hash":
		return xxhash.NewSeenSet()
	case "bloom":
		return bloom.NewSeenSet(bloomSize, bloomFalsePositiveRate)
	default:
		return dedup.NewMapSet()
	}
}

// Run crawls the requested URLs and prints one line per attempt followed by
// a summary.
func (c *CLI) Run(deps *Dependencies) error {
	seeds := c.URLs
	if c.Sitemap {
		var err error
		if seeds, err = c.discover(deps); err != nil {
			return err
		}
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressFetched:
			fmt.Fprintf(deps.Stdout, "fetched   %s\n", event.URL)
		case crawl.ProgressPrevented:
			fmt.Fprintf(deps.Stdout, "prevented %s\n", event.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "failed    %s: %v\n", event.URL, event.Error)
		}
	}

	var sink *resultSink
	if c.Out != "" {
		sink = newResultSink(fs.NewStore(filepath.Dir(c.Out), filepath.Base(c.Out)))
		defer deps.Crawler.Subscribe(sink.save)()
	}

	var summary *crawl.Summary
	var err error
	if c.Walk {
		summary, err = walkAll(deps, seeds, progress)
	} else {
		summary, err = deps.Crawler.CrawlAll(deps.Ctx, seeds, progress)
	}
	if err == nil && sink != nil {
		err = sink.finish()
	} else if sink != nil {
		_ = sink.store.Abort()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatSummary(summary))
	if sink != nil {
		fmt.Fprintf(deps.Stdout, "saved %d pages to %s\n", sink.store.Saved(), c.Out)
	}

	if deps.Registry != nil {
		return writeMetrics(deps.Stdout, deps.Registry)
	}
	return nil
}

func (c *CLI) discover(deps *Dependencies) ([]string, error) {
	var seeds []string
	for _, u := range c.URLs {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, u, nil)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: sitemap for %s: %s\n", u, crawlonce.ErrorMessage(err))
			return nil, err
		}
		seeds = append(seeds, urls...)
	}
	return seeds, nil
}

// walkAll walks each seed in turn. The plugin state is shared, so pages
// reached from an earlier seed are not fetched again.
func walkAll(deps *Dependencies, seeds []string, progress crawl.ProgressFunc) (*crawl.Summary, error) {
	total := &crawl.Summary{}
	for _, seed := range seeds {
		s, err := deps.Crawler.Walk(deps.Ctx, seed, progress)
		total.Add(s)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// resultSink saves broadcast results and keeps the first save error.
type resultSink struct {
	store *fs.Store

	mu  sync.Mutex
	err error
}

func newResultSink(store *fs.Store) *resultSink {
	return &resultSink{store: store}
}

func (s *resultSink) save(result crawlonce.Result) {
	if err := s.store.Save(result); err != nil {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
}

// finish commits the saved pages, or discards them if any save failed.
func (s *resultSink) finish() error {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		_ = s.store.Abort()
		return err
	}
	return s.store.Commit()
}
