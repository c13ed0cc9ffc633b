package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "example.com/storefront/app/internal/domain/cart"
	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domproduct "example.com/storefront/app/internal/domain/product"
	domshipping "example.com/storefront/app/internal/domain/shipping"
	domshopper "example.com/storefront/app/internal/domain/shopper"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	categoryuc "example.com/storefront/app/internal/usecase/category"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	productuc "example.com/storefront/app/internal/usecase/product"
	"example.com/storefront/app/pkg/fetch"
)

const welcomeMessage = "Welcome to Carved Rock Fitness"

type API struct {
	authSvc     *authuc.Service
	categorySvc *categoryuc.Service
	productSvc  *productuc.Service
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	validator   *validator.Validate
}

type Dependencies struct {
	AuthService     *authuc.Service
	CategoryService *categoryuc.Service
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	return &API{
		authSvc:     deps.AuthService,
		categorySvc: deps.CategoryService,
		productSvc:  deps.ProductService,
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		validator:   validate,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
		})
		r.Post("/session", a.handleStartSession)
		r.Get("/categories", a.handleListCategories)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.Delete("/", a.handleEmptyCart)
				cr.Post("/items", a.handleAddCartItem)
				cr.Patch("/items/{sku}", a.handleUpdateCartItem)
			})

			pr.Route("/checkout", func(cr chi.Router) {
				cr.Get("/", a.handleGetCheckout)
				cr.Delete("/", a.handleRestartCheckout)
				cr.Put("/address", a.handleChangeAddress)
				cr.Post("/address/{field}/touch", a.handleTouchAddress)
				cr.Post("/submit", a.handleSubmitCheckout)
			})
		})

		r.Get("/{category}", a.handleListProducts)
		r.Get("/{category}/{id}", a.handleGetProduct)
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func handleDomainError(w http.ResponseWriter, err error) {
	var respErr *fetch.ResponseError

	switch {
	case errors.Is(err, domproduct.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domproduct.ErrInvalidID),
		errors.Is(err, domcheckout.ErrUnknownField):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domcart.ErrInvalidLineItem),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, errUnknownSKU):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domcheckout.ErrSubmitInProgress),
		errors.Is(err, domcheckout.ErrCheckoutCompleted):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domshopper.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domshipping.ErrSaveRejected),
		errors.As(err, &respErr):
		respondError(w, http.StatusBadGateway, err)
	case errors.Is(err, cartuc.ErrStoreClosed):
		respondError(w, http.StatusServiceUnavailable, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
