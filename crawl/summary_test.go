package crawl_test

import (
	"testing"

	"github.com/fwojciec/crawlonce/crawl"
	"github.com/stretchr/testify/assert"
)

func TestSummary_Add(t *testing.T) {
	t.Parallel()

	total := &crawl.Summary{Fetched: 1, Bytes: 10}
	total.Add(&crawl.Summary{Fetched: 2, Prevented: 3, Failed: 1, Bytes: 5})
	total.Add(nil)

	assert.Equal(t, crawl.Summary{Fetched: 3, Prevented: 3, Failed: 1, Bytes: 15}, *total)
	assert.Equal(t, 7, total.Attempts())
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{2 * 1024 * 1024, "2.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, crawl.FormatBytes(tt.bytes))
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	s := &crawl.Summary{Fetched: 3, Prevented: 2, Failed: 1, Bytes: 1536}
	assert.Equal(t, "3 fetched (1.5 KB), 2 prevented, 1 failed", crawl.FormatSummary(s))
}
