package shipping

import "context"

// Saver persists a shipping address with an external service.
type Saver interface {
	Save(ctx context.Context, addr Address) error
}
