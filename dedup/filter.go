// Package dedup provides the crawl-once plugin: a crawler plugin that vetoes
// crawls of resources it has already seen.
package dedup

import (
	"sync/atomic"

	"github.com/fwojciec/crawlonce"
)

// Compile-time interface verification.
var _ crawlonce.Plugin = (*Filter)(nil)

// Config configures a Filter. It is copied at construction.
type Config struct {
	// FilterURL selects the URLs subject to dedup. Nil matches every URL.
	FilterURL crawlonce.URLMatcher

	// IgnoreQuery keys resources by scheme://host/path, so URLs differing
	// only by query string or fragment are treated as one resource.
	IgnoreQuery bool

	// Seen stores the ignored keys. Nil uses an exact in-memory set.
	// The set is cleared when the Filter is created.
	Seen crawlonce.SeenSet
}

// Filter is a crawler plugin that prevents repeated crawls of a resource.
// It is safe for concurrent use if its seen-set is.
type Filter struct {
	filterURL   crawlonce.URLMatcher
	ignoreQuery bool
	seen        crawlonce.SeenSet
	enabled     atomic.Bool
}

// NewFilter returns a disabled Filter with an empty seen-set.
func NewFilter(cfg Config) *Filter {
	f := &Filter{
		filterURL:   cfg.FilterURL,
		ignoreQuery: cfg.IgnoreQuery,
		seen:        cfg.Seen,
	}
	if f.filterURL == nil {
		f.filterURL = crawlonce.MatchAll
	}
	if f.seen == nil {
		f.seen = NewMapSet()
	}
	f.Reset()
	return f
}

// Ignore adds key to the ignore list and reports whether it was already there.
func (f *Filter) Ignore(key string) bool {
	return f.seen.Add(key)
}

// Check reports whether key is on the ignore list.
func (f *Filter) Check(key string) bool {
	return f.seen.Contains(key)
}

// Reset empties the ignore list.
func (f *Filter) Reset() {
	f.seen.Clear()
}

// ResetKey removes a single key from the ignore list, making it crawlable again.
func (f *Filter) ResetKey(key string) {
	f.seen.Remove(key)
}

// Len returns the number of keys on the ignore list.
func (f *Filter) Len() int {
	return f.seen.Len()
}

// OnCrawl is the crawl hook. It prevents the crawl when the URL passes the
// URL filter and its resource key has been seen before. A URL that cannot be
// parsed is reported without touching the ignore list.
func (f *Filter) OnCrawl(settings *crawlonce.CrawlSettings) error {
	if !f.filterURL(settings.URL) {
		return nil
	}
	key, err := crawlonce.ResourceKey(settings.URL, f.ignoreQuery)
	if err != nil {
		return err
	}
	if f.Ignore(key) {
		settings.PreventCrawl = true
	}
	return nil
}

// Hooks returns the crawl hook.
func (f *Filter) Hooks() map[crawlonce.Event]crawlonce.Hook {
	return map[crawlonce.Event]crawlonce.Hook{
		crawlonce.EventCrawl: f.OnCrawl,
	}
}

// Enable activates the plugin.
func (f *Filter) Enable() { f.enabled.Store(true) }

// Disable deactivates the plugin. The ignore list is kept.
func (f *Filter) Disable() { f.enabled.Store(false) }

// Enabled reports whether the plugin is active.
func (f *Filter) Enabled() bool { return f.enabled.Load() }
