// Package fs stores fetched pages on disk.
package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/crawlonce"
)

// URLToPath converts a page URL to a relative file path rooted at the host.
// Example: https://example.com/docs/api → example.com/docs/api.html
// Query strings and fragments are dropped, so variants share a file and the
// last one saved wins.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", crawlonce.Errorf(crawlonce.EINVALID, "URL %q has no host", rawURL)
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment == ".." {
			return "", crawlonce.Errorf(crawlonce.EINVALID, "path traversal in %q", rawURL)
		}
	}

	host := strings.ReplaceAll(u.Host, ":", "_")
	path := strings.TrimPrefix(u.Path, "/")

	switch {
	case path == "":
		path = "index.html"
	case strings.HasSuffix(path, "/"):
		path += "index.html"
	case filepath.Ext(path) == "":
		path += ".html"
	}

	return filepath.Join(host, filepath.FromSlash(path)), nil
}

// FormatResult prefixes the page body with an HTML comment recording where
// and when it was fetched.
func FormatResult(r crawlonce.Result) string {
	var b strings.Builder
	b.WriteString("<!--\n")
	b.WriteString("source: ")
	b.WriteString(r.URL)
	if r.Referrer != "" {
		b.WriteString("\nreferrer: ")
		b.WriteString(r.Referrer)
	}
	b.WriteString("\nsession: ")
	b.WriteString(r.SessionID)
	b.WriteString("\nfetched: ")
	b.WriteString(r.FetchedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n-->\n")
	b.WriteString(r.HTML)
	return b.String()
}

// Store saves crawl results with atomic update semantics. Pages are written
// to baseDir/name.tmp and moved to baseDir/name on Commit.
// Save is safe for concurrent use.
type Store struct {
	baseDir string
	name    string

	mu    sync.Mutex
	saved map[string]struct{}
}

// NewStore creates a new Store.
func NewStore(baseDir, name string) *Store {
	return &Store{baseDir: baseDir, name: name, saved: make(map[string]struct{})}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a result to the temporary directory, replacing any earlier
// result stored at the same path.
func (s *Store) Save(r crawlonce.Result) error {
	relPath, err := URLToPath(r.URL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("save %s: %w", r.URL, err)
	}
	if err := os.WriteFile(fullPath, []byte(FormatResult(r)), 0644); err != nil {
		return fmt.Errorf("save %s: %w", r.URL, err)
	}

	s.saved[relPath] = struct{}{}
	return nil
}

// Saved returns the number of distinct files written so far.
func (s *Store) Saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// Commit replaces the final directory with the temporary one.
func (s *Store) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved since the store was created.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}
