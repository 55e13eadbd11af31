// internal/storage/archive/uploader_test.go
package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesift/internal/core"
)

// flakyStore fails the first failures writes, then behaves.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	objects  map[string][]byte
}

func newFlakyStore(failures int) *flakyStore {
	return &flakyStore{failures: failures, objects: make(map[string][]byte)}
}

func (f *flakyStore) Write(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("transient backend failure")
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *flakyStore) Read(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (f *flakyStore) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *flakyStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestUploader_UploadDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"metrics_summary.csv":                  "a",
		"rr_threshold_2/final_result_rr_2.csv": "b",
	})
	store := newFlakyStore(0)

	count, err := NewUploader(store, 0).UploadDir(context.Background(), dir, "runs/xyz")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.Read(context.Background(), "runs/xyz/rr_threshold_2/final_result_rr_2.csv")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}

func TestUploader_RetriesTransientFailures(t *testing.T) {
	dir := writeTree(t, map[string]string{"report.txt": "x"})
	store := newFlakyStore(2)

	u := NewUploader(store, 3)
	u.interval = time.Millisecond

	count, err := u.UploadDir(context.Background(), dir, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ok, err := store.Exists(context.Background(), "report.txt")
	require.NoError(t, err)
	assert.True(t, ok, "file should exist after retries")
}

func TestUploader_GivesUpAfterMaxRetries(t *testing.T) {
	dir := writeTree(t, map[string]string{"report.txt": "x"})
	store := newFlakyStore(100)

	u := NewUploader(store, 1)
	u.interval = time.Millisecond

	count, err := u.UploadDir(context.Background(), dir, "")
	assert.ErrorIs(t, err, core.ErrArchiveFailed)
	assert.Equal(t, 0, count)
}
