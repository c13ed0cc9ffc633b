package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	dom "example.com/storefront/app/internal/domain/product"
	"example.com/storefront/app/pkg/fetch"
)

type Service struct {
	getter fetch.Getter
}

func NewService(getter fetch.Getter) *Service {
	return &Service{getter: getter}
}

// List returns the products of category, or every product when category is
// empty.
func (s *Service) List(ctx context.Context, category string) ([]dom.Product, error) {
	const op = "product.Service.List"

	path := "products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	products, err := load[[]dom.Product](ctx, s.getter, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []dom.Product{}
	}
	return products, nil
}

// GetByID returns the product id of category. A product filed under another
// category is reported as not found.
func (s *Service) GetByID(ctx context.Context, category, id string) (dom.Product, error) {
	const op = "product.Service.GetByID"

	if id == "" {
		return dom.Product{}, fmt.Errorf("%s: %w", op, dom.ErrInvalidID)
	}

	p, err := load[dom.Product](ctx, s.getter, dom.Path(id))
	if err != nil {
		var respErr *fetch.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return dom.Product{}, fmt.Errorf("%s: %w", op, dom.ErrProductNotFound)
		}
		return dom.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if category != "" && p.Category != category {
		return dom.Product{}, fmt.Errorf("%s: %w", op, dom.ErrProductNotFound)
	}
	return p, nil
}

// load runs a single gateway cycle scoped to the calling request.
func load[T any](ctx context.Context, getter fetch.Getter, path string) (T, error) {
	res := fetch.NewResource[T](getter)
	defer res.Close()

	res.Load(ctx, path)
	st, err := res.Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return st.Data, st.Err
}
