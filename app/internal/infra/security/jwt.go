package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domshopper "example.com/storefront/app/internal/domain/shopper"
)

var errInvalidToken = errors.New("invalid token")

type JWTService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(secret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type jwtClaims struct {
	jwt.RegisteredClaims
}

func (s *JWTService) GenerateToken(shopperID string) (string, *domshopper.Shopper, error) {
	now := s.now()
	exp := now.Add(s.expiration)
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   shopperID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("security.JWTService.GenerateToken: %w", err)
	}
	return signed, &domshopper.Shopper{ID: shopperID, ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *JWTService) ParseToken(token string) (*domshopper.Shopper, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errInvalidToken
	}

	sh := &domshopper.Shopper{ID: claims.Subject}
	if claims.ExpiresAt != nil {
		sh.ExpiresAt = claims.ExpiresAt.Time
	}
	return sh, nil
}
