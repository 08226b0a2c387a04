package dedup

import (
	"sync"

	"github.com/fwojciec/crawlonce"
)

var _ crawlonce.SeenSet = (*MapSet)(nil)

// MapSet is an exact in-memory seen-set.
type MapSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewMapSet returns an empty MapSet.
func NewMapSet() *MapSet {
	return &MapSet{keys: make(map[string]struct{})}
}

func (s *MapSet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return true
	}
	s.keys[key] = struct{}{}
	return false
}

func (s *MapSet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

func (s *MapSet) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

func (s *MapSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.keys)
}

func (s *MapSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
