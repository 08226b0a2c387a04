package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/crawlonce/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSeenSet_Add(t *testing.T) {
	t.Parallel()

	s := bloom.NewSeenSet(1000, 0.01)

	// First add reports the key as new
	assert.False(t, s.Add("https://example.com/page1"))

	// Repeat reports it as seen
	assert.True(t, s.Add("https://example.com/page1"))

	// Different URL is still new
	assert.False(t, s.Add("https://example.com/page2"))
}

func TestSeenSet_ZeroCapacity(t *testing.T) {
	t.Parallel()

	s := bloom.NewSeenSet(0, 0.01)

	assert.False(t, s.Add("https://example.com/page1"))
	assert.True(t, s.Add("https://example.com/page1"))
	assert.True(t, s.Contains("https://example.com/page1"))
}

func TestSeenSet_Contains(t *testing.T) {
	t.Parallel()

	s := bloom.NewSeenSet(1000, 0.01)

	assert.False(t, s.Contains("https://example.com/page1"))
	assert.False(t, s.Contains("https://example.com/page1"), "Contains must not insert")

	s.Add("https://example.com/page1")
	assert.True(t, s.Contains("https://example.com/page1"))
}

func TestSeenSet_Remove(t *testing.T) {
	t.Parallel()

	t.Run("removed key becomes unseen until added again", func(t *testing.T) {
		t.Parallel()

		s := bloom.NewSeenSet(1000, 0.01)
		s.Add("https://example.com/page1")

		s.Remove("https://example.com/page1")
		assert.False(t, s.Contains("https://example.com/page1"))

		assert.False(t, s.Add("https://example.com/page1"))
		assert.True(t, s.Contains("https://example.com/page1"))
		assert.True(t, s.Add("https://example.com/page1"))
	})

	t.Run("removing an absent key is a no-op", func(t *testing.T) {
		t.Parallel()

		s := bloom.NewSeenSet(1000, 0.01)
		s.Remove("https://example.com/missing")

		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Add("https://example.com/missing"))
	})
}

func TestSeenSet_Clear(t *testing.T) {
	t.Parallel()

	s := bloom.NewSeenSet(1000, 0.01)
	s.Add("https://example.com/page1")
	s.Add("https://example.com/page2")
	s.Remove("https://example.com/page2")

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("https://example.com/page1"))
	assert.False(t, s.Add("https://example.com/page2"))
}

func TestSeenSet_Len(t *testing.T) {
	t.Parallel()

	s := bloom.NewSeenSet(1000, 0.01)
	assert.Equal(t, 0, s.Len())

	s.Add("https://example.com/page1")
	s.Add("https://example.com/page2")
	s.Add("https://example.com/page3")

	// Estimated count should be approximately 3
	count := s.Len()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestSeenSet_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	s := bloom.NewSeenSet(numItems, fpRate)

	for i := range numItems {
		s.Add(fmt.Sprintf("https://example.com/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if s.Contains(fmt.Sprintf("https://example.com/notadded/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
