package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/hamba/avro/v2"

	domcart "example.com/storefront/app/internal/domain/cart"
)

const CartSchemaTextV1 = `{
	"type": "array",
	"items": {
		"type": "record",
		"namespace": "storefront.cart",
		"name": "line_item",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "sku", "type": "string"},
			{"name": "quantity", "type": "int"}
		]
	}
}`

var ErrQuantityOverflow = errors.New("quantity does not fit the snapshot schema")

type lineItemV1 struct {
	ProductID string `avro:"id"`
	SKU       string `avro:"sku"`
	Quantity  int32  `avro:"quantity"`
}

type Avro struct {
	schema avro.Schema
}

func NewAvro() (Avro, error) {
	const op = "codec.NewAvro"

	s, err := avro.Parse(CartSchemaTextV1)
	if err != nil {
		return Avro{}, fmt.Errorf("%s: %w", op, err)
	}
	return Avro{schema: s}, nil
}

func (a Avro) Marshal(c domcart.Cart) ([]byte, error) {
	const op = "codec.Avro.Marshal"

	items := make([]lineItemV1, len(c))
	for i, item := range c {
		if item.Quantity > math.MaxInt32 || item.Quantity < math.MinInt32 {
			return nil, fmt.Errorf("%s: sku %q: %w", op, item.SKU, ErrQuantityOverflow)
		}
		items[i] = lineItemV1{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  int32(item.Quantity),
		}
	}

	data, err := avro.Marshal(a.schema, items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (a Avro) Unmarshal(data []byte) (domcart.Cart, error) {
	const op = "codec.Avro.Unmarshal"

	var items []lineItemV1
	if err := avro.Unmarshal(a.schema, data, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := make(domcart.Cart, len(items))
	for i, item := range items {
		c[i] = domcart.LineItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  int(item.Quantity),
		}
	}
	return c, nil
}
