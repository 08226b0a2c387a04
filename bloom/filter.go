// Package bloom provides a fixed-memory seen-set backed by a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.SeenSet = (*SeenSet)(nil)

// SeenSet is an approximate seen-set. False positives are possible, so an
// unseen key may occasionally be reported as seen; false negatives are not.
//
// Bloom filters cannot delete, so removed keys are kept in an exact
// tombstone set until they are added again or the set is cleared.
// It is safe for concurrent use by multiple goroutines.
type SeenSet struct {
	mu      sync.Mutex
	f       *bloom.BloomFilter
	removed map[string]struct{}
}

// NewSeenSet creates a SeenSet sized for n expected keys
// with the given false positive rate. n is at least 1.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	n = max(n, 1)
	return &SeenSet{
		f:       bloom.NewWithEstimates(n, fpRate),
		removed: make(map[string]struct{}),
	}
}

// Add inserts key and reports whether it might already be present.
func (s *SeenSet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.removed[key]; ok {
		delete(s.removed, key)
		return false
	}
	return s.f.TestOrAddString(key)
}

// Contains reports whether key might be present.
func (s *SeenSet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.removed[key]; ok {
		return false
	}
	return s.f.TestString(key)
}

// Remove marks key as unseen. Keys that were never added are ignored.
func (s *SeenSet) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f.TestString(key) {
		s.removed[key] = struct{}{}
	}
}

// Clear resets the filter and drops all tombstones.
func (s *SeenSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.f.ClearAll()
	clear(s.removed)
}

// Len returns the approximate number of keys in the set.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int(s.f.ApproximatedSize()) - len(s.removed)
	return max(n, 0)
}
