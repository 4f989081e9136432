// Package token issues and verifies the signed bearer tokens used for
// authentication. Tokens carry the subject email, the user id, and an absolute
// expiry; nothing is persisted server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haim/bookstore-api/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Service struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// New builds a token service for the configured HMAC algorithm. Non-HMAC
// algorithms are rejected: verification trusts a shared secret only.
func New(secret, algorithm string, ttl time.Duration) (*Service, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &Service{secret: []byte(secret), method: method, ttl: ttl}, nil
}

func (s *Service) Issue(email string, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"uid": userID.String(),
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and extracts the identity claims.
// Any failure, including missing claims, reports ErrInvalidToken.
func (s *Service) Verify(raw string) (model.Identity, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	rawUID, _ := claims["uid"].(string)
	if email == "" || rawUID == "" {
		return model.Identity{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(rawUID)
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{Email: email, UserID: userID}, nil
}
