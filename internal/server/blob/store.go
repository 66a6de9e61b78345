// Package blob abstracts where upload payloads live. The metadata row in
// the database is the source of truth; a Store only holds bytes keyed by the
// generated stored filename.
package blob

import (
	"context"
	"io"
)

// Store reads and writes upload payloads. Open returns common.ErrNotFound
// for unknown keys.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
