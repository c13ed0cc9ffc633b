package shopper

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidShopperID = errors.New("invalid shopper id")
)
