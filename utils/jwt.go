package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "BurgerStorefront"

var ErrInvalidSessionToken = errors.New("invalid or expired session token")

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionSigner issues and verifies the HS256 tokens kept in the session cookie.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionSigner{secret: []byte(secret), ttl: ttl}
}

// TTL is how long an issued token stays valid.
func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

func (s *SessionSigner) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		Error().Errorf("Error signing session token: %v", err)
		return "", err
	}
	return signed, nil
}

func (s *SessionSigner) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(sessionIssuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSessionToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
