package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/crawlonce"
)

// Walk crawls seed and then follows links breadth-first within the seed's
// host. Walk itself does not deduplicate: revisits are left to the plugins,
// and MaxPages bounds the number of attempts.
func (c *Crawler) Walk(ctx context.Context, seed string, progress ProgressFunc) (*Summary, error) {
	if c.Links == nil {
		return nil, crawlonce.Errorf(crawlonce.EINVALID, "walk requires a link extractor")
	}
	seedURL, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	summary := &Summary{}
	queue := []crawlonce.CrawlSettings{{URL: seed}}
	for len(queue) > 0 && summary.Attempts() < maxPages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		settings := queue[0]
		queue = queue[1:]

		result, err := c.crawl(ctx, &settings)
		summary.record(settings.URL, result, err, progress)
		if err != nil || result == nil {
			continue
		}

		links, err := c.Links.ExtractLinks(result.HTML, settings.URL)
		if err != nil {
			continue
		}
		for _, link := range links {
			linkURL, err := url.Parse(link)
			if err != nil || linkURL.Host != seedURL.Host {
				continue
			}
			queue = append(queue, crawlonce.CrawlSettings{URL: link, Referrer: settings.URL})
		}
	}

	return summary, nil
}
