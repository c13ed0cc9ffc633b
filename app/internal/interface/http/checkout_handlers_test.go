package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domshipping "example.com/storefront/app/internal/domain/shipping"
)

func TestCheckout_InitialState(t *testing.T) {
	env := newTestEnv(t)
	token := env.session(t)

	rec := env.do(t, http.MethodGet, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	st := decode[checkoutResponse](t, rec)
	assert.Equal(t, domcheckout.StatusIdle, st.Status)
	assert.Empty(t, st.Errors)
	assert.Empty(t, st.Touched)
	assert.False(t, st.Valid)
	assert.Equal(t, domshipping.Countries, st.Countries)
}

func TestCheckout_Flow(t *testing.T) {
	env := newTestEnv(t)
	token := env.session(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, addCartItemRequest{ProductID: "1", SKU: "17"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/address/city/touch", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[checkoutResponse](t, rec)
	assert.Equal(t, map[string]string{"city": "City is required"}, st.Errors)
	assert.Equal(t, []domcheckout.Field{domcheckout.FieldCity}, st.Touched)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	st = decode[checkoutResponse](t, rec)
	assert.Equal(t, domcheckout.StatusSubmitted, st.Status)
	assert.Equal(t, map[string]string{
		"city":    "City is required",
		"country": "Country is required",
	}, st.Errors)

	for _, change := range []changeAddressRequest{
		{Field: "city", Value: "Leeds"},
		{Field: "country", Value: "United Kingdom"},
	} {
		rec = env.do(t, http.MethodPut, "/api/v1/checkout/address", token, change)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	st = decode[checkoutResponse](t, rec)
	assert.True(t, st.Valid)
	assert.Empty(t, st.Errors)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decode[checkoutResponse](t, rec)
	assert.Equal(t, domcheckout.StatusCompleted, st.Status)
	assert.Equal(t, []domshipping.Address{{City: "Leeds", Country: "United Kingdom"}}, env.upstream.savedAddresses())

	view := decode[cartResponse](t, env.do(t, http.MethodGet, "/api/v1/cart", token, nil))
	assert.Empty(t, view.Items)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	st = decode[checkoutResponse](t, env.do(t, http.MethodGet, "/api/v1/checkout", token, nil))
	assert.Equal(t, domcheckout.StatusIdle, st.Status)
}

func TestCheckout_UnsupportedCountry(t *testing.T) {
	env := newTestEnv(t)
	token := env.session(t)

	rec := env.do(t, http.MethodPut, "/api/v1/checkout/address", token, changeAddressRequest{Field: "country", Value: "France"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/address/country/touch", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[checkoutResponse](t, rec)
	assert.Equal(t, "Country is not supported", st.Errors["country"])
}

func TestCheckout_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	token := env.session(t)

	rec := env.do(t, http.MethodPut, "/api/v1/checkout/address", token, changeAddressRequest{Field: "zip", Value: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/address/zip/touch", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_SaveFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.session(t)
	env.upstream.setSaveStatus(http.StatusInternalServerError)

	for _, change := range []changeAddressRequest{
		{Field: "city", Value: "Austin"},
		{Field: "country", Value: "USA"},
	} {
		rec := env.do(t, http.MethodPut, "/api/v1/checkout/address", token, change)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/checkout/submit", token, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	st := decode[checkoutResponse](t, env.do(t, http.MethodGet, "/api/v1/checkout", token, nil))
	assert.Equal(t, domcheckout.StatusIdle, st.Status)
	assert.NotEmpty(t, st.SaveError)

	env.upstream.setSaveStatus(0)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
