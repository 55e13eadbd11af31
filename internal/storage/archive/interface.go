// internal/storage/archive/interface.go
package archive

import "context"

// Store is a flat archive for run results, keyed by slash-separated relative
// paths. Runs write survivor files, summary tables, and reports under a
// per-run prefix.
type Store interface {
	// Write stores data at the given key
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves the data at the given key
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given key
	Exists(ctx context.Context, key string) (bool, error)
}
