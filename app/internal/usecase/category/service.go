package category

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	dom "example.com/storefront/app/internal/domain/category"
	domproduct "example.com/storefront/app/internal/domain/product"
)

type ProductLister interface {
	List(ctx context.Context, category string) ([]domproduct.Product, error)
}

type Service struct {
	products ProductLister
}

func NewService(products ProductLister) *Service {
	return &Service{products: products}
}

// List returns the categories of the upstream catalog ordered by slug.
// Products without a category are left out.
func (s *Service) List(ctx context.Context) ([]dom.Category, error) {
	const op = "category.Service.List"

	products, err := s.products.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts := make(map[string]int)
	for _, p := range products {
		if p.Category != "" {
			counts[p.Category]++
		}
	}

	categories := make([]dom.Category, 0, len(counts))
	for slug, n := range counts {
		categories = append(categories, dom.Category{
			Slug:         slug,
			Name:         dom.NameOf(slug),
			ProductCount: n,
		})
	}
	slices.SortFunc(categories, func(a, b dom.Category) int {
		return cmp.Compare(a.Slug, b.Slug)
	})
	return categories, nil
}
