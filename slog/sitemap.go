package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   crawlonce.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next crawlonce.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the seed count.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *crawlonce.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(err), "sitemap discovery",
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// level reports failures at warn and everything else at info.
func level(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
