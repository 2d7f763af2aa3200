package persist

import "context"

// MemStore is a map-backed BlobStore for tests and ephemeral runs.
type MemStore struct {
	blobs map[string][]byte
}

var _ BlobStore = (*MemStore)(nil)

// NewMemStore creates an empty in-memory blob store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

// Get returns the blob for key, or (nil, nil) if never written.
func (m *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// Set stores a copy of the blob for key.
func (m *MemStore) Set(ctx context.Context, key string, blob []byte) error {
	out := make([]byte, len(blob))
	copy(out, blob)
	m.blobs[key] = out
	return nil
}

// Close is a no-op for in-memory stores.
func (m *MemStore) Close() error { return nil }
