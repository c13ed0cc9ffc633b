package memory

import (
	"bytes"
	"context"
	"sync"

	domcart "example.com/storefront/app/internal/domain/cart"
)

// CartRepository keeps snapshots in process memory. Contents are lost on
// restart.
type CartRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewCartRepository() *CartRepository {
	return &CartRepository{data: make(map[string][]byte)}
}

func (r *CartRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, domcart.ErrSnapshotNotFound
	}
	return bytes.Clone(v), nil
}

func (r *CartRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = bytes.Clone(value)
	return nil
}
