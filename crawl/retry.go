package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/crawlonce"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether a failed fetch may succeed when repeated.
// Application errors coded EINVALID or ENOTFOUND are permanent, and nothing
// is retried once ctx is done.
func Retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	switch crawlonce.ErrorCode(err) {
	case crawlonce.EINVALID, crawlonce.ENOTFOUND:
		return false
	}
	return true
}

// FetchWithRetryDelays fetches url, retrying transient failures once per
// entry in delays after sleeping for that entry. An empty delays slice means
// a single attempt. The logger, if provided, is called before each retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt == len(delays) || !Retryable(ctx, err) {
			return "", err
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
