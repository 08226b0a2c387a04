// Package crawlonce keeps a crawler from revisiting resources it has already
// seen. It defines the plugin contract a crawler exposes before each fetch,
// the resource key derivation used for dedup identity, and the seen-set
// abstraction behind the ignore list.
//
// This package contains domain types and interfaces only. Implementations
// live in subdirectories: dedup/ holds the crawl-once filter itself, while
// packages such as bloom/, xxhash/ and http/ are named after their primary
// dependency.
package crawlonce
