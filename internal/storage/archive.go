// Package storage archives generated report exports to an object
// store. Archiving is optional; when no backend is configured, exports
// are only returned to the caller.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/pressline/apiserver/config"
)

// Archive stores report exports under a key in the configured bucket.
type Archive interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Bucket() string
}

// NewArchive constructs the backend named by config: "minio", "gcs",
// or "" for no archiving (returns a nil Archive).
func NewArchive(ctx context.Context, cfg config.ArchiveConfig) (Archive, error) {
	switch cfg.Backend {
	case "minio":
		return NewMinioArchive(cfg.Minio)
	case "gcs":
		return NewGCSArchive(ctx, cfg.GCS)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
