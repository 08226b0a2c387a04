// Package goquery extracts crawlable links from HTML pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor finds same-host anchor links in a page.
type LinkExtractor struct {
	// Selector picks the anchors to consider. Defaults to "a[href]".
	Selector string
}

// NewLinkExtractor creates a LinkExtractor that considers every anchor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{Selector: "a[href]"}
}

// ExtractLinks returns absolute same-host URLs in document order.
// Fragments are stripped, links back to the page itself are dropped, and
// javascript:, mailto:, tel: and data: links are skipped. Query strings are
// kept; whether they identify distinct resources is up to the plugins.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, crawlonce.Errorf(crawlonce.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, crawlonce.Errorf(crawlonce.EINVALID, "failed to parse HTML: %v", err)
	}

	selector := e.Selector
	if selector == "" {
		selector = "a[href]"
	}

	self := *base
	self.Fragment = ""

	seen := make(map[string]bool)
	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		if resolved.Host != base.Host {
			return
		}
		link := resolved.String()
		if link == self.String() || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
