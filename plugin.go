package crawlonce

import "time"

// Event names a point in the crawl lifecycle that plugins can hook into.
type Event string

// EventCrawl fires once per crawl attempt, before the resource is fetched.
const EventCrawl Event = "crawl"

// CrawlSettings describes a pending crawl attempt. Hooks may inspect it and
// veto the fetch by setting PreventCrawl.
type CrawlSettings struct {
	URL      string
	Referrer string // page the URL was discovered on, empty for seeds

	// PreventCrawl suppresses the fetch when set by any hook.
	// The crawl still completes without error.
	PreventCrawl bool
}

// Hook handles an event for a pending crawl attempt.
// Returning an error aborts that attempt.
type Hook func(settings *CrawlSettings) error

// Plugin extends a crawler with event hooks.
type Plugin interface {
	// Hooks returns the plugin's handlers keyed by event name.
	Hooks() map[Event]Hook

	// Enable activates the plugin. Hooks of disabled plugins are not called.
	Enable()

	// Disable deactivates the plugin.
	Disable()

	// Enabled reports whether the plugin is active.
	Enabled() bool
}

// Result is broadcast once per successfully fetched resource.
type Result struct {
	SessionID string
	URL       string
	Referrer  string
	HTML      string
	FetchedAt time.Time
}
