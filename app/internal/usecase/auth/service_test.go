package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domshopper "example.com/storefront/app/internal/domain/shopper"
)

type mockTokenService struct {
	issued      map[string]string
	generateErr error
}

func newMockTokenService() *mockTokenService {
	return &mockTokenService{issued: make(map[string]string)}
}

func (m *mockTokenService) GenerateToken(shopperID string) (string, *domshopper.Shopper, error) {
	if m.generateErr != nil {
		return "", nil, m.generateErr
	}
	token := "mock-token-" + shopperID
	m.issued[token] = shopperID
	return token, &domshopper.Shopper{ID: shopperID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *mockTokenService) ParseToken(token string) (*domshopper.Shopper, error) {
	id, ok := m.issued[token]
	if !ok {
		return nil, errors.New("token is malformed")
	}
	return &domshopper.Shopper{ID: id}, nil
}

func TestService_StartSession(t *testing.T) {
	tokens := newMockTokenService()
	svc := NewService(tokens)

	res, err := svc.StartSession()
	require.NoError(t, err)
	require.NoError(t, domshopper.ValidateID(res.Shopper.ID))
	assert.Equal(t, "mock-token-"+res.Shopper.ID, res.Token)

	other, err := svc.StartSession()
	require.NoError(t, err)
	assert.NotEqual(t, res.Shopper.ID, other.Shopper.ID)
}

func TestService_StartSessionTokenFailure(t *testing.T) {
	tokens := newMockTokenService()
	tokens.generateErr = errors.New("signing failed")
	svc := NewService(tokens)

	_, err := svc.StartSession()
	require.ErrorIs(t, err, tokens.generateErr)
}

func TestService_Authenticate(t *testing.T) {
	tokens := newMockTokenService()
	svc := NewService(tokens)

	res, err := svc.StartSession()
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		sh, err := svc.Authenticate(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.Shopper.ID, sh.ID)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Authenticate("")
		require.ErrorIs(t, err, domshopper.ErrUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Authenticate("forged")
		require.ErrorIs(t, err, domshopper.ErrUnauthorized)
	})

	t.Run("token with invalid shopper id", func(t *testing.T) {
		tokens.issued["odd"] = "not-a-uuid"
		_, err := svc.Authenticate("odd")
		require.ErrorIs(t, err, domshopper.ErrUnauthorized)
	})
}
