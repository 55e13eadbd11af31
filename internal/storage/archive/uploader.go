// internal/storage/archive/uploader.go
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tradesift/internal/core"
)

// Uploader copies a finished run's output directory into a Store, retrying
// each file on transient failures.
type Uploader struct {
	store      Store
	maxRetries uint64
	interval   time.Duration
}

// NewUploader creates an uploader. retries is the number of additional
// attempts per file after the first one.
func NewUploader(store Store, retries int) *Uploader {
	if retries < 0 {
		retries = 0
	}
	return &Uploader{
		store:      store,
		maxRetries: uint64(retries),
		interval:   500 * time.Millisecond,
	}
}

// UploadDir walks dir and writes every regular file to the store under
// keyPrefix, preserving the relative layout. It returns the number of files
// uploaded; on failure the count covers the files that made it.
func (u *Uploader) UploadDir(ctx context.Context, dir, keyPrefix string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if keyPrefix != "" {
			key = keyPrefix + "/" + key
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := u.put(ctx, key, data); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, core.WrapError(core.ErrArchiveFailed, err)
	}
	return uploaded, nil
}

func (u *Uploader) put(ctx context.Context, key string, data []byte) error {
	operation := func() error {
		return u.store.Write(ctx, key, data)
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = u.interval
	strategy.MaxElapsedTime = 2 * time.Minute

	return backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(strategy, u.maxRetries), ctx))
}
