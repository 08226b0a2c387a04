// Package xxhash provides a compact seen-set that stores 64-bit xxhash
// digests of resource keys instead of the keys themselves.
package xxhash

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.SeenSet = (*SeenSet)(nil)

// SeenSet tracks keys by digest. Memory per key is constant regardless of URL
// length. Two keys collide only if their 64-bit digests do.
// It is safe for concurrent use by multiple goroutines.
type SeenSet struct {
	mu      sync.Mutex
	digests map[uint64]struct{}
}

// NewSeenSet returns an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{digests: make(map[uint64]struct{})}
}

// Add inserts key and reports whether it was already present.
func (s *SeenSet) Add(key string) bool {
	h := xxhash.Sum64String(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.digests[h]; ok {
		return true
	}
	s.digests[h] = struct{}{}
	return false
}

// Contains reports whether key is present.
func (s *SeenSet) Contains(key string) bool {
	h := xxhash.Sum64String(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.digests[h]
	return ok
}

// Remove deletes key.
func (s *SeenSet) Remove(key string) {
	h := xxhash.Sum64String(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.digests, h)
}

// Clear removes every key.
func (s *SeenSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.digests)
}

// Len returns the number of keys in the set.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.digests)
}
