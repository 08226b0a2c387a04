package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.Plugin = (*LoggingPlugin)(nil)

// LoggingPlugin wraps a Plugin and logs every hook invocation with the
// resulting crawl decision. Enable state is shared with the wrapped plugin.
type LoggingPlugin struct {
	next   crawlonce.Plugin
	logger *slog.Logger
}

// NewLoggingPlugin creates a new LoggingPlugin.
func NewLoggingPlugin(next crawlonce.Plugin, logger *slog.Logger) *LoggingPlugin {
	return &LoggingPlugin{next: next, logger: logger}
}

// Hooks returns the wrapped plugin's hooks, each decorated with logging.
func (p *LoggingPlugin) Hooks() map[crawlonce.Event]crawlonce.Hook {
	inner := p.next.Hooks()
	hooks := make(map[crawlonce.Event]crawlonce.Hook, len(inner))
	for event, hook := range inner {
		hooks[event] = func(settings *crawlonce.CrawlSettings) (err error) {
			defer func(begin time.Time) {
				p.logger.Log(context.Background(), level(err), "crawl decision",
					"event", string(event),
					"url", settings.URL,
					"prevented", settings.PreventCrawl,
					"duration", time.Since(begin),
					"err", err,
				)
			}(time.Now())
			return hook(settings)
		}
	}
	return hooks
}

func (p *LoggingPlugin) Enable()       { p.next.Enable() }
func (p *LoggingPlugin) Disable()      { p.next.Disable() }
func (p *LoggingPlugin) Enabled() bool { return p.next.Enabled() }
