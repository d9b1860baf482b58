package bizgen

import (
	"io"
)

// Cache stores small blobs of data under string keys.
type Cache interface {
	// Get returns a reader for the entry with the given key.
	// Returns a NotFound error if there is no such entry.
	Get(key string) (io.ReadCloser, error)
	// Put stores the data from the reader under the given key,
	// replacing any previous entry.
	Put(key string, r io.Reader) error
	// Delete removes the entry with the given key.
	Delete(key string) error
}
