package cart

import (
	"errors"
	"fmt"
)

var (
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	ErrInvalidLineItem  = errors.New("line item sku is required")
	ErrInvalidQuantity  = errors.New("line item quantity out of range")
	ErrDuplicateSKU     = errors.New("duplicate sku in cart")
)

// UnhandledActionError is the panic value of Reduce for an action type it
// does not know.
type UnhandledActionError struct {
	Type ActionType
}

func (e *UnhandledActionError) Error() string {
	return fmt.Sprintf("unhandled cart action %q", string(e.Type))
}
