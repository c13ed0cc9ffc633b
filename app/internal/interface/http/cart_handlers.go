package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domcart "example.com/storefront/app/internal/domain/cart"
	cartuc "example.com/storefront/app/internal/usecase/cart"
)

var errUnknownSKU = errors.New("sku does not belong to product")

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,numeric"`
	SKU       string `json:"sku" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=2147483647"`
}

type cartItemResponse struct {
	ProductID string  `json:"id"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      int     `json:"size"`
	LineTotal float64 `json:"line_total"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
}

func mapCartView(v *cartuc.View) cartResponse {
	items := make([]cartItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Size:      item.Size,
			LineTotal: item.LineTotal,
		})
	}
	return cartResponse{
		Items:     items,
		ItemCount: v.ItemCount,
		Total:     v.Total,
	}
}

func mapCart(c domcart.Cart) map[string]any {
	return map[string]any{
		"items":      c.Clone(),
		"item_count": c.ItemCount(),
	}
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	view, err := a.cartSvc.View(r.Context(), sh.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.GetByID(r.Context(), "", req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if _, ok := p.FindSKU(req.SKU); !ok {
		handleDomainError(w, fmt.Errorf("%w: %q", errUnknownSKU, req.SKU))
		return
	}

	// Lines are keyed by the id the product data carries, so "01" and "1"
	// land on the same line.
	c, err := a.cartSvc.Add(r.Context(), sh.ID, strconv.FormatInt(p.ID, 10), req.SKU)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCart(c))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.UpdateQuantity(r.Context(), sh.ID, chi.URLParam(r, "sku"), *req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

func (a *API) handleEmptyCart(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	if err := a.cartSvc.Empty(r.Context(), sh.ID); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
