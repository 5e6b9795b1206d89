package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccountKind discriminates token subjects: outlet accounts vs platform users.
type AccountKind string

const (
	KindOutlet AccountKind = "outlet"
	KindUser   AccountKind = "user"
)

// ErrInvalidToken covers bad signature, expiry, and malformed payloads.
// Callers must not leak which one it was.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity claims embedded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
	ID       int64       `json:"id"`
	Type     AccountKind `json:"type"`
	Username string      `json:"username"`
}

// TokenService issues and verifies signed identity tokens. Tokens are
// stateless; rotating the secret invalidates everything outstanding.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed token for the subject.
func (s *TokenService) Issue(id int64, kind AccountKind, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ID:       id,
		Type:     kind,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Signature,
// expiry, and payload failures all surface as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
