package http

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domshipping "example.com/storefront/app/internal/domain/shipping"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
)

type changeAddressRequest struct {
	Field string `json:"field" validate:"required,oneof=city country"`
	Value string `json:"value"`
}

type checkoutResponse struct {
	Status    domcheckout.Status  `json:"status"`
	Address   domshipping.Address `json:"address"`
	Touched   []domcheckout.Field `json:"touched"`
	Errors    map[string]string   `json:"errors"`
	Valid     bool                `json:"valid"`
	SaveError string              `json:"save_error,omitempty"`
	Countries []string            `json:"countries"`
}

func mapCheckout(st checkoutuc.State) checkoutResponse {
	touched := make([]domcheckout.Field, 0, len(st.Touched))
	for field, ok := range st.Touched {
		if ok {
			touched = append(touched, field)
		}
	}
	slices.Sort(touched)

	errs := make(map[string]string, len(st.Errors))
	for field, msg := range st.Errors {
		errs[string(field)] = msg
	}

	resp := checkoutResponse{
		Status:    st.Status,
		Address:   st.Address,
		Touched:   touched,
		Errors:    errs,
		Valid:     st.Valid,
		Countries: domshipping.Countries,
	}
	if st.SaveError != nil {
		resp.SaveError = st.SaveError.Error()
	}
	return resp
}

func (a *API) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(a.checkoutSvc.Form(sh.ID).State()))
}

func (a *API) handleRestartCheckout(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	a.checkoutSvc.Restart(sh.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleChangeAddress(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req changeAddressRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	st, err := a.checkoutSvc.Form(sh.ID).Change(domcheckout.Field(req.Field), req.Value)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(st))
}

func (a *API) handleTouchAddress(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	st, err := a.checkoutSvc.Form(sh.ID).Touch(domcheckout.Field(chi.URLParam(r, "field")))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(st))
}

func (a *API) handleSubmitCheckout(w http.ResponseWriter, r *http.Request) {
	sh := getShopper(r.Context())
	if sh == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	st, err := a.checkoutSvc.Form(sh.ID).Submit(r.Context())
	switch {
	case err != nil:
		handleDomainError(w, err)
	case st.Status == domcheckout.StatusSubmitted:
		writeJSON(w, http.StatusUnprocessableEntity, mapCheckout(st))
	default:
		writeJSON(w, http.StatusOK, mapCheckout(st))
	}
}

