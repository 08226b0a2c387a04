// Package crawl provides a small plugin-driven crawler. Plugins hook into
// each crawl attempt before the fetch and may veto it; every successful
// fetch is broadcast to result subscribers.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/crawlonce"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Crawler fetches URLs on behalf of its plugins.
type Crawler struct {
	Fetcher     crawlonce.Fetcher
	Links       crawlonce.LinkExtractor // required by Walk
	RateLimiter crawlonce.DomainLimiter // optional
	RetryDelays []time.Duration         // nil means DefaultRetryDelays
	RetryLog    LogFunc                 // optional
	Concurrency int                     // CrawlAll workers, default 10
	MaxPages    int                     // Walk attempt limit, default 1000

	id string

	mu          sync.RWMutex
	plugins     []crawlonce.Plugin
	subscribers map[int]ResultFunc
	nextSub     int
}

// NewCrawler returns a Crawler with a fresh session ID.
func NewCrawler(fetcher crawlonce.Fetcher) *Crawler {
	return &Crawler{
		Fetcher:     fetcher,
		id:          uuid.NewString(),
		subscribers: make(map[int]ResultFunc),
	}
}

// ResultFunc receives fetched resources. It may be called concurrently.
type ResultFunc func(result crawlonce.Result)

// Default limits.
const (
	defaultConcurrency = 10
	// defaultMaxPages limits the number of attempts in Walk to prevent runaway crawls.
	defaultMaxPages = 1000
)

// SessionID identifies this crawler in broadcast results.
func (c *Crawler) SessionID() string {
	return c.id
}

// AddPlugin registers a plugin. Its hooks run in registration order, and
// only while the plugin is enabled.
func (c *Crawler) AddPlugin(p crawlonce.Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plugins = append(c.plugins, p)
}

// Subscribe registers fn for result events and returns a function that
// removes the subscription.
func (c *Crawler) Subscribe(fn ResultFunc) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribers == nil {
		c.subscribers = make(map[int]ResultFunc)
	}
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Crawl runs the crawl hooks for settings and fetches the URL unless a hook
// prevented it. A prevented crawl completes without error and without a
// result event. Hook errors abort the attempt and are returned.
func (c *Crawler) Crawl(ctx context.Context, settings crawlonce.CrawlSettings) error {
	_, err := c.crawl(ctx, &settings)
	return err
}

// CrawlAll crawls urls concurrently. Per-URL failures are counted in the
// summary; the returned error is only set when ctx is done.
func (c *Crawler) CrawlAll(ctx context.Context, urls []string, progress ProgressFunc) (*Summary, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	var mu sync.Mutex
	summary := &Summary{}
	for _, u := range urls {
		g.Go(func() error {
			result, err := c.crawl(ctx, &crawlonce.CrawlSettings{URL: u})
			mu.Lock()
			defer mu.Unlock()
			summary.record(u, result, err, progress)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// crawl returns a nil result when the attempt was prevented.
func (c *Crawler) crawl(ctx context.Context, settings *crawlonce.CrawlSettings) (*crawlonce.Result, error) {
	for _, hook := range c.hooks(crawlonce.EventCrawl) {
		if err := hook(settings); err != nil {
			return nil, fmt.Errorf("crawl hook for %s: %w", settings.URL, err)
		}
	}
	if settings.PreventCrawl {
		return nil, nil
	}

	if c.RateLimiter != nil {
		u, err := url.Parse(settings.URL)
		if err != nil {
			return nil, crawlonce.Errorf(crawlonce.EINVALID, "invalid URL %q: %v", settings.URL, err)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, settings.URL, c.Fetcher.Fetch, c.RetryLog, delays)
	if err != nil {
		return nil, err
	}

	result := crawlonce.Result{
		SessionID: c.id,
		URL:       settings.URL,
		Referrer:  settings.Referrer,
		HTML:      html,
		FetchedAt: time.Now(),
	}
	c.broadcast(result)
	return &result, nil
}

// hooks returns the handlers for event from enabled plugins, in registration order.
func (c *Crawler) hooks(event crawlonce.Event) []crawlonce.Hook {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var hooks []crawlonce.Hook
	for _, p := range c.plugins {
		if !p.Enabled() {
			continue
		}
		if hook, ok := p.Hooks()[event]; ok && hook != nil {
			hooks = append(hooks, hook)
		}
	}
	return hooks
}

func (c *Crawler) broadcast(result crawlonce.Result) {
	c.mu.RLock()
	subscribers := make([]ResultFunc, 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.RUnlock()

	for _, fn := range subscribers {
		fn(result)
	}
}
