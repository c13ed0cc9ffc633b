package codec

import (
	"errors"
	"fmt"

	domcart "example.com/storefront/app/internal/domain/cart"
)

const (
	NameJSON = "json"
	NameAvro = "avro"
)

var ErrUnknownCodec = errors.New("unknown snapshot codec")

// Codec serializes cart snapshots.
type Codec interface {
	Marshal(c domcart.Cart) ([]byte, error)
	Unmarshal(data []byte) (domcart.Cart, error)
}

func New(name string) (Codec, error) {
	switch name {
	case "", NameJSON:
		return JSON{}, nil
	case NameAvro:
		return NewAvro()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
