package object

import (
	"context"
	"io"
)

// ObjectStore reads and writes binary objects by storage key.
type ObjectStore interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}
