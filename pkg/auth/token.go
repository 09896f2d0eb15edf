package auth

import (
	"errors"
	"fmt"
	"time"

	"cv-platform-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("auth: signing secret not configured")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims is the token payload: the caller identity plus the registered claims.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a server-held secret.
type TokenService struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, expire time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expire: expire,
		now:    time.Now,
	}
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(id domain.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}

	now := s.now()
	claims := Claims{
		ID:   id.ID,
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the identity.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	if len(s.secret) == 0 {
		return domain.Identity{}, ErrNoSecret
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{ID: claims.ID, Role: domain.Role(claims.Role)}, nil
}
