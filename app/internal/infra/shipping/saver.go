package shipping

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	dom "example.com/storefront/app/internal/domain/shipping"
	"example.com/storefront/app/pkg/fetch"
)

const addressPath = "shippingAddress"

type Poster interface {
	Post(ctx context.Context, path string, body any, dst any) error
}

// HTTPSaver saves shipping addresses with the upstream API.
type HTTPSaver struct {
	client Poster
}

func NewHTTPSaver(client Poster) *HTTPSaver {
	return &HTTPSaver{client: client}
}

func (s *HTTPSaver) Save(ctx context.Context, addr dom.Address) error {
	const op = "shipping.HTTPSaver.Save"

	err := s.client.Post(ctx, addressPath, addr, nil)
	if err == nil {
		return nil
	}

	var respErr *fetch.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode >= http.StatusBadRequest && respErr.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: %w", op, dom.ErrSaveRejected, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
