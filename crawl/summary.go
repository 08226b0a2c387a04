package crawl

import (
	"fmt"

	"github.com/fwojciec/crawlonce"
)

// Summary counts the outcomes of a batch of crawl attempts.
type Summary struct {
	Fetched   int
	Prevented int
	Failed    int
	Bytes     int
}

// ProgressEvent reports the outcome of a single crawl attempt.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Error error
}

// ProgressType indicates the outcome of a crawl attempt.
type ProgressType int

const (
	ProgressFetched ProgressType = iota
	ProgressPrevented
	ProgressFailed
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Add folds the counts of other into s.
func (s *Summary) Add(other *Summary) {
	if other == nil {
		return
	}
	s.Fetched += other.Fetched
	s.Prevented += other.Prevented
	s.Failed += other.Failed
	s.Bytes += other.Bytes
}

// Attempts returns the number of crawl attempts counted.
func (s *Summary) Attempts() int {
	return s.Fetched + s.Prevented + s.Failed
}

func (s *Summary) record(url string, result *crawlonce.Result, err error, progress ProgressFunc) {
	event := ProgressEvent{URL: url, Error: err}
	switch {
	case err != nil:
		s.Failed++
		event.Type = ProgressFailed
	case result == nil:
		s.Prevented++
		event.Type = ProgressPrevented
	default:
		s.Fetched++
		s.Bytes += len(result.HTML)
		event.Type = ProgressFetched
	}
	if progress != nil {
		progress(event)
	}
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatSummary renders a one-line summary of a crawl.
func FormatSummary(s *Summary) string {
	return fmt.Sprintf("%d fetched (%s), %d prevented, %d failed",
		s.Fetched, FormatBytes(s.Bytes), s.Prevented, s.Failed)
}
