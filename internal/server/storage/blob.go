// Package storage provides the blob store adapter: opaque byte content
// addressed by the owning node's id, kept in an S3-compatible object store.
package storage

import (
	"context"
	"io"
)

// BlobStore is the narrow interface the file service depends on. Content is
// streamed in and out; no method buffers a whole blob in memory.
type BlobStore interface {
	// Put writes size bytes from r under key, tagged with contentType.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the blob under key for streaming. The caller must close the
	// returned reader. A missing key yields common.ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob under key. Deleting a missing key is not an
	// error (S3 semantics).
	Delete(ctx context.Context, key string) error
}
