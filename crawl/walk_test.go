package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/crawlonce"
	"github.com/fwojciec/crawlonce/crawl"
	"github.com/fwojciec/crawlonce/dedup"
	"github.com/fwojciec/crawlonce/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclicSite links every page back to others, so walking it only
// terminates early when revisits are prevented.
var cyclicSite = map[string][]string{
	"https://example.com/":  {"https://example.com/a", "https://example.com/b"},
	"https://example.com/a": {"https://example.com/", "https://example.com/b", "https://other.com/x"},
	"https://example.com/b": {"https://example.com/a"},
}

func newWalkCrawler(fetched *[]string) *crawl.Crawler {
	c := crawl.NewCrawler(&mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			*fetched = append(*fetched, url)
			return url, nil
		},
	})
	c.Links = &mock.LinkExtractor{
		ExtractLinksFn: func(html string, _ string) ([]string, error) {
			return cyclicSite[html], nil
		},
	}
	c.RetryDelays = []time.Duration{}
	return c
}

func TestCrawler_Walk(t *testing.T) {
	t.Parallel()

	t.Run("visits each page once with the crawl once plugin", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := newWalkCrawler(&fetched)
		plugin := dedup.NewFilter(dedup.Config{})
		c.AddPlugin(plugin)
		plugin.Enable()

		summary, err := c.Walk(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
		}, fetched)
		assert.Equal(t, 3, summary.Fetched)
		assert.Equal(t, 3, summary.Prevented)
		assert.False(t, plugin.Check("https://other.com/x"), "other hosts are never crawled")
	})

	t.Run("stops at MaxPages without dedup", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := newWalkCrawler(&fetched)
		c.MaxPages = 10

		summary, err := c.Walk(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, 10, summary.Fetched)
		assert.Len(t, fetched, 10)
	})

	t.Run("passes referrer to hooks", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := newWalkCrawler(&fetched)
		c.MaxPages = 2
		referrers := map[string]string{}
		c.AddPlugin(&mock.Plugin{
			EnabledFn: func() bool { return true },
			HooksFn: func() map[crawlonce.Event]crawlonce.Hook {
				return map[crawlonce.Event]crawlonce.Hook{
					crawlonce.EventCrawl: func(s *crawlonce.CrawlSettings) error {
						referrers[s.URL] = s.Referrer
						return nil
					},
				}
			},
		})

		_, err := c.Walk(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, "", referrers["https://example.com/"])
		assert.Equal(t, "https://example.com/", referrers["https://example.com/a"])
	})

	t.Run("requires a link extractor", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCrawler(&mock.Fetcher{})

		_, err := c.Walk(context.Background(), "https://example.com/", nil)

		assert.Equal(t, crawlonce.EINVALID, crawlonce.ErrorCode(err))
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := newWalkCrawler(&fetched)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Walk(ctx, "https://example.com/", nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, fetched)
	})
}
