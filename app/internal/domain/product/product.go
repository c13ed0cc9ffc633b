package product

type SKU struct {
	SKU  string `json:"sku"`
	Size int    `json:"size"`
}

type Product struct {
	ID          int64   `json:"id"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	SKUs        []SKU   `json:"skus"`
}

func (p Product) FindSKU(sku string) (SKU, bool) {
	for _, s := range p.SKUs {
		if s.SKU == sku {
			return s, true
		}
	}
	return SKU{}, false
}

// Path is the upstream resource path of a single product.
func Path(id string) string {
	return "products/" + id
}
