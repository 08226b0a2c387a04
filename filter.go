package crawlonce

import (
	"regexp"
	"slices"
)

// URLMatcher decides whether a URL is subject to dedup.
type URLMatcher func(url string) bool

// MatchAll matches every URL.
func MatchAll(string) bool { return true }

// MatchRegexp returns a URLMatcher that matches URLs containing a match of re.
func MatchRegexp(re *regexp.Regexp) URLMatcher {
	return re.MatchString
}

// URLFilter selects URLs by pattern. A URL passes when it matches at least
// one Include pattern (or Include is empty) and no Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// ParseURLFilter compiles include and exclude patterns into a URLFilter.
// Returns nil when both lists are empty.
func ParseURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	var f URLFilter
	var err error
	if f.Include, err = compile("include", include); err != nil {
		return nil, err
	}
	if f.Exclude, err = compile("exclude", exclude); err != nil {
		return nil, err
	}
	return &f, nil
}

func compile(kind string, patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid %s pattern %q: %v", kind, pattern, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match reports whether url passes the filter. A nil filter passes
// everything, so Match can be used as a URLMatcher directly.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(res []*regexp.Regexp, url string) bool {
	return slices.ContainsFunc(res, func(re *regexp.Regexp) bool {
		return re.MatchString(url)
	})
}
