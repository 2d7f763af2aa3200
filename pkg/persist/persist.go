// Package persist provides durable blob stores for cognate snapshots. The
// engine treats the durable location as an opaque key-value store with one
// key per logical store.
package persist

import "context"

// BlobStore is the durable location for serialized store snapshots.
// Get returns (nil, nil) when the key has never been written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error

	// Close releases any resources held by the store.
	Close() error
}
