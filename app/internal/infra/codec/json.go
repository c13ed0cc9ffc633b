package codec

import (
	"encoding/json"
	"fmt"

	domcart "example.com/storefront/app/internal/domain/cart"
)

// JSON stores the cart as a JSON array of {"id","sku","quantity"}.
type JSON struct{}

func (JSON) Marshal(c domcart.Cart) ([]byte, error) {
	const op = "codec.JSON.Marshal"

	data, err := json.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (JSON) Unmarshal(data []byte) (domcart.Cart, error) {
	const op = "codec.JSON.Unmarshal"

	var c domcart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c == nil {
		c = domcart.Cart{}
	}
	return c, nil
}
