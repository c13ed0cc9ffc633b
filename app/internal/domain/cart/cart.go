package cart

import "math"

// MaxQuantity is the largest quantity a line may hold. Snapshots store
// quantities as 32-bit integers.
const MaxQuantity = math.MaxInt32

type LineItem struct {
	ProductID string `json:"id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// Cart keeps line items in first-add order. SKUs are unique.
type Cart []LineItem

func (c Cart) Find(sku string) (LineItem, bool) {
	for _, item := range c {
		if item.SKU == sku {
			return item, true
		}
	}
	return LineItem{}, false
}

// ItemCount is the sum of all line quantities.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Validate reports whether c holds the cart invariants: no duplicate SKU,
// no empty SKU and every quantity between one and MaxQuantity.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, item := range c {
		if item.SKU == "" {
			return ErrInvalidLineItem
		}
		if item.Quantity < 1 || item.Quantity > MaxQuantity {
			return ErrInvalidQuantity
		}
		if _, dup := seen[item.SKU]; dup {
			return ErrDuplicateSKU
		}
		seen[item.SKU] = struct{}{}
	}
	return nil
}
