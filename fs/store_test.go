package fs_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/crawlonce"
	"github.com/fwojciec/crawlonce/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "simple path", url: "https://example.com/docs/api/users", want: "example.com/docs/api/users.html"},
		{name: "trailing slash becomes index", url: "https://example.com/docs/", want: "example.com/docs/index.html"},
		{name: "root path becomes index", url: "https://example.com/", want: "example.com/index.html"},
		{name: "root without trailing slash", url: "https://example.com", want: "example.com/index.html"},
		{name: "keeps existing extension", url: "https://example.com/feed.xml", want: "example.com/feed.xml"},
		{name: "ignores query string", url: "https://example.com/docs/api?version=2", want: "example.com/docs/api.html"},
		{name: "ignores fragment", url: "https://example.com/docs/api#section", want: "example.com/docs/api.html"},
		{name: "port becomes part of host directory", url: "http://127.0.0.1:8080/a", want: "127.0.0.1_8080/a.html"},
		{name: "rejects path traversal", url: "https://example.com/../../etc/passwd", wantErr: true},
		{name: "rejects missing host", url: "/relative/path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	content := fs.FormatResult(crawlonce.Result{
		SessionID: "sess-1",
		URL:       "https://example.com/a",
		Referrer:  "https://example.com/",
		HTML:      "<html>A</html>",
		FetchedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, content, "source: https://example.com/a")
	assert.Contains(t, content, "referrer: https://example.com/")
	assert.Contains(t, content, "session: sess-1")
	assert.Contains(t, content, "fetched: 2024-01-15T10:00:00Z")
	assert.Contains(t, content, "-->\n<html>A</html>")
}

func TestStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base, "output")

	err := store.Save(crawlonce.Result{URL: "https://example.com/docs/api", HTML: "<p>api</p>"})

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output.tmp", "example.com", "docs", "api.html"))
	require.NoError(t, err, "file should exist in temp directory")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
	assert.Equal(t, 1, store.Saved())
}

func TestStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "output", "stale"), 0755))
	store := fs.NewStore(base, "output")
	require.NoError(t, store.Save(crawlonce.Result{URL: "https://example.com/a", HTML: "A"}))

	err := store.Commit()

	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(base, "output", "example.com", "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "source: https://example.com/a")
	_, err = os.Stat(filepath.Join(base, "output", "stale"))
	assert.True(t, os.IsNotExist(err), "previous output should be replaced")
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestStore_CommitWithoutResultsCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base, "output")

	require.NoError(t, store.Commit())

	info, err := os.Stat(filepath.Join(base, "output"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base, "output")
	require.NoError(t, store.Save(crawlonce.Result{URL: "https://example.com/a", HTML: "A"}))

	err := store.Abort()

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestStore_SaveSamePathCountsOnce(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base, "output")

	require.NoError(t, store.Save(crawlonce.Result{URL: "https://example.com/a?x=1", HTML: "first"}))
	require.NoError(t, store.Save(crawlonce.Result{URL: "https://example.com/a?x=2", HTML: "second"}))

	assert.Equal(t, 1, store.Saved())
	content, err := os.ReadFile(filepath.Join(base, "output.tmp", "example.com", "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "source: https://example.com/a?x=2")
	assert.NotContains(t, string(content), "first")
}

func TestStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base, "output")

	var wg sync.WaitGroup
	for _, p := range []string{"a", "b", "c", "d/e", "d/f"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(crawlonce.Result{URL: "https://example.com/" + p, HTML: p}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, store.Saved())
}
