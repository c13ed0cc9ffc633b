package shopper

import (
	"time"

	"github.com/google/uuid"
)

// Shopper is an anonymous visitor identified by a session token.
type Shopper struct {
	ID        string
	ExpiresAt time.Time
}

func NewID() string {
	return uuid.NewString()
}

func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return ErrInvalidShopperID
	}
	return nil
}
