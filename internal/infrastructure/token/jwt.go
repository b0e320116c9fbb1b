// Package token issues and verifies the signed, stateless session tokens
// that carry a caller's username between requests.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// Claims is the JWT payload. Only the username is meaningful; registered
// claims are filled in when a TTL is configured.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service signs tokens with a shared HS256 secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a token Service. A ttl <= 0 issues tokens that never
// expire.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token embedding username.
func (s *Service) Issue(username string) (string, error) {
	claims := Claims{Username: username}
	if s.ttl > 0 {
		now := s.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and returns the embedded username. Any
// failure yields domain.ErrInvalidToken.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid || claims.Username == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Username, nil
}
