package cart

// Reduce returns the cart that results from applying a to c. It never
// modifies c.
//
// An action type outside the known vocabulary is a programming error and
// makes Reduce panic with *UnhandledActionError.
func Reduce(c Cart, a Action) Cart {
	switch a.Type {
	case ActionAdd:
		if _, ok := c.Find(a.SKU); ok {
			next := make(Cart, len(c))
			for i, item := range c {
				if item.SKU == a.SKU && item.Quantity < MaxQuantity {
					item.Quantity++
				}
				next[i] = item
			}
			return next
		}
		next := make(Cart, len(c), len(c)+1)
		copy(next, c)
		return append(next, LineItem{ProductID: a.ProductID, SKU: a.SKU, Quantity: 1})

	case ActionEmpty:
		return Cart{}

	case ActionUpdateQuantity:
		if a.Quantity == 0 {
			next := make(Cart, 0, len(c))
			for _, item := range c {
				if item.SKU != a.SKU {
					next = append(next, item)
				}
			}
			return next
		}
		next := make(Cart, len(c))
		for i, item := range c {
			if item.SKU == a.SKU {
				item.Quantity = a.Quantity
			}
			next[i] = item
		}
		return next

	default:
		panic(&UnhandledActionError{Type: a.Type})
	}
}
