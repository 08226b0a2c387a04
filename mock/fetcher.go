package mock

import (
	"context"

	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of crawlonce.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ crawlonce.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of crawlonce.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ crawlonce.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of crawlonce.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
