package crawlonce

import "context"

// Fetcher retrieves the body of a crawl target.
type Fetcher interface {
	// Fetch returns the body at url. ctx bounds the request.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases held resources.
	Close() error
}

// LinkExtractor finds crawlable links in a fetched page.
type LinkExtractor interface {
	// ExtractLinks returns absolute URLs on the same host as baseURL, in
	// document order and without duplicates.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}

// SitemapService turns a site URL into seed URLs listed in its sitemaps.
type SitemapService interface {
	// DiscoverURLs locates the site's sitemaps through robots.txt, falling
	// back to /sitemap.xml, and returns the page URLs they list in order.
	// Sitemap indexes are followed. A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}
