package mock

import (
	"context"

	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of crawlonce.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *crawlonce.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *crawlonce.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
