package xxhash_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/crawlonce/xxhash"
	"github.com/stretchr/testify/assert"
)

func TestSeenSet_Add(t *testing.T) {
	t.Parallel()

	s := xxhash.NewSeenSet()

	assert.False(t, s.Add("https://example.com/page1"))
	assert.True(t, s.Add("https://example.com/page1"))
	assert.False(t, s.Add("https://example.com/page1?q=1"))
	assert.Equal(t, 2, s.Len())
}

func TestSeenSet_Remove(t *testing.T) {
	t.Parallel()

	s := xxhash.NewSeenSet()
	s.Add("https://example.com/page1")
	s.Add("https://example.com/page2")

	s.Remove("https://example.com/page1")
	s.Remove("https://example.com/never-added")

	assert.False(t, s.Contains("https://example.com/page1"))
	assert.True(t, s.Contains("https://example.com/page2"))
	assert.Equal(t, 1, s.Len())
}

func TestSeenSet_Clear(t *testing.T) {
	t.Parallel()

	s := xxhash.NewSeenSet()
	for i := 0; i < 100; i++ {
		s.Add(fmt.Sprintf("https://example.com/%d", i))
	}

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("https://example.com/42"))
}

func TestSeenSet_concurrent_access(t *testing.T) {
	t.Parallel()

	s := xxhash.NewSeenSet()

	const numGoroutines = 10
	const numKeys = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numKeys; j++ {
				s.Add(fmt.Sprintf("https://example.com/%d", j))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, numKeys, s.Len())
}
