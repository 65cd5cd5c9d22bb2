// Package storage abstracts the document blob store: opaque bytes addressed
// by the document identifier.
package storage

import (
	"context"
	"io"

	"github.com/femitubosun/codygo-task/pkg/errors"
)

// ErrNotFound is returned when a document does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = errors.ErrDocumentNotFound

// Store is read/write access to stored documents. Fetch returns a stream so
// large documents are never buffered whole on the serving side; the caller
// owns the returned ReadCloser.
type Store interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, body io.Reader, size int64) error
}
