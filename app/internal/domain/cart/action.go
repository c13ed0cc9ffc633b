package cart

type ActionType string

const (
	ActionAdd            ActionType = "add"
	ActionUpdateQuantity ActionType = "updateQuantity"
	ActionEmpty          ActionType = "empty"
)

func (t ActionType) IsValid() bool {
	switch t {
	case ActionAdd, ActionUpdateQuantity, ActionEmpty:
		return true
	default:
		return false
	}
}

type Action struct {
	Type      ActionType
	ProductID string
	SKU       string
	Quantity  int
}

func Add(productID, sku string) Action {
	return Action{Type: ActionAdd, ProductID: productID, SKU: sku}
}

func UpdateQuantity(sku string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, SKU: sku, Quantity: quantity}
}

func Empty() Action {
	return Action{Type: ActionEmpty}
}
