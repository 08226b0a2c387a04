package crawlonce

import (
	"fmt"
	"net/url"
	"strings"
)

// ResourceKey derives the dedup identity of a crawl target.
//
// With ignoreQuery unset the raw URL is the key and no error is possible.
// Otherwise the URL is parsed and reduced to scheme://host/path, so URLs that
// differ only by query string or fragment share a key. The host is lowercased
// and keeps its port, and an empty path on a hierarchical URL becomes "/".
func ResourceKey(rawURL string, ignoreQuery bool) (string, error) {
	if !ignoreQuery {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("resource key: %w", err)
	}
	path := u.EscapedPath()
	if path == "" && u.Host != "" {
		path = "/"
	}
	return u.Scheme + "://" + strings.ToLower(u.Host) + path, nil
}
