package core

import (
	"context"
	"io"
)

// BlobStore is any object store that can hold submission attachments and
// session recordings. Implementations live in storage/blob.
type BlobStore interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
}
