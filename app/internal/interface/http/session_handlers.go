package http

import (
	"net/http"
	"time"
)

type sessionResponse struct {
	Token     string    `json:"token"`
	ShopperID string    `json:"shopper_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) handleStartSession(w http.ResponseWriter, r *http.Request) {
	result, err := a.authSvc.StartSession()
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:     result.Token,
		ShopperID: result.Shopper.ID,
		ExpiresAt: result.Shopper.ExpiresAt,
	})
}
