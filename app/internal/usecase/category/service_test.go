package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	dom "example.com/storefront/app/internal/domain/category"
	domproduct "example.com/storefront/app/internal/domain/product"
)

type mockProductLister struct {
	products []domproduct.Product
	err      error
	gotCat   string
}

func (m *mockProductLister) List(ctx context.Context, category string) ([]domproduct.Product, error) {
	m.gotCat = category
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func TestService_List(t *testing.T) {
	lister := &mockProductLister{products: []domproduct.Product{
		{ID: 1, Category: "shoes"},
		{ID: 2, Category: "backpacks"},
		{ID: 3, Category: "shoes"},
		{ID: 4},
		{ID: 5, Category: "trail-running"},
	}}
	svc := NewService(lister)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", lister.gotCat)
	require.Equal(t, []dom.Category{
		{Slug: "backpacks", Name: "Backpacks", ProductCount: 1},
		{Slug: "shoes", Name: "Shoes", ProductCount: 2},
		{Slug: "trail-running", Name: "Trail running", ProductCount: 1},
	}, got)
}

func TestService_ListEmpty(t *testing.T) {
	svc := NewService(&mockProductLister{})

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestService_ListError(t *testing.T) {
	errUpstream := errors.New("upstream down")
	svc := NewService(&mockProductLister{err: errUpstream})

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, errUpstream)
}
