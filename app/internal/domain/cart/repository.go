package cart

import "context"

// Repository stores serialized cart snapshots under a key.
// Get returns ErrSnapshotNotFound when nothing was stored under key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
