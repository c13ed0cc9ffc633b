package auth

import (
	"fmt"

	domshopper "example.com/storefront/app/internal/domain/shopper"
)

type TokenService interface {
	GenerateToken(shopperID string) (string, *domshopper.Shopper, error)
	ParseToken(token string) (*domshopper.Shopper, error)
}

type Service struct {
	tokens TokenService
	newID  func() string
}

func NewService(tokens TokenService) *Service {
	return &Service{
		tokens: tokens,
		newID:  domshopper.NewID,
	}
}

type SessionResult struct {
	Token   string
	Shopper *domshopper.Shopper
}

// StartSession issues a token for a new anonymous shopper.
func (s *Service) StartSession() (*SessionResult, error) {
	const op = "auth.Service.StartSession"

	token, sh, err := s.tokens.GenerateToken(s.newID())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SessionResult{
		Token:   token,
		Shopper: sh,
	}, nil
}

// Authenticate resolves token to its shopper. Every failure is reported as
// domshopper.ErrUnauthorized.
func (s *Service) Authenticate(token string) (*domshopper.Shopper, error) {
	if token == "" {
		return nil, domshopper.ErrUnauthorized
	}

	sh, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, domshopper.ErrUnauthorized
	}
	if err := domshopper.ValidateID(sh.ID); err != nil {
		return nil, domshopper.ErrUnauthorized
	}
	return sh, nil
}
