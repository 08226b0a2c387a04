package mock

import "github.com/fwojciec/crawlonce"

var _ crawlonce.SeenSet = (*SeenSet)(nil)

// SeenSet is a mock implementation of crawlonce.SeenSet.
type SeenSet struct {
	AddFn      func(key string) bool
	ContainsFn func(key string) bool
	RemoveFn   func(key string)
	ClearFn    func()
	LenFn      func() int
}

func (s *SeenSet) Add(key string) bool {
	return s.AddFn(key)
}

func (s *SeenSet) Contains(key string) bool {
	return s.ContainsFn(key)
}

func (s *SeenSet) Remove(key string) {
	s.RemoveFn(key)
}

func (s *SeenSet) Clear() {
	s.ClearFn()
}

func (s *SeenSet) Len() int {
	return s.LenFn()
}
