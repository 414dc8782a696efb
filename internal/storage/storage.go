package storage

import (
	"context"
	"io"
)

// Uploader stores post media and returns a durable public URL for it.
// Image transformation and serving are the storage/CDN side's concern; the
// backend only persists the returned URL.
type Uploader interface {
	// Upload stores content under key and returns its public URL.
	// The size parameter is the expected content size (-1 if unknown).
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes the content with the given key. Best-effort on the
	// post-deletion path.
	Delete(ctx context.Context, key string) error
}
