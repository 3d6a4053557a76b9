package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrEmptySubject is returned when issuing a token without a subject.
var ErrEmptySubject = errors.New("token subject cannot be empty")

// Verification is the outcome of checking a token. Subject and ExpiresAt
// are only set when Valid is true.
type Verification struct {
	Valid     bool
	Subject   string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256-signed tokens whose subject is the
// account email. The key and TTL are fixed at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret and issuing
// tokens valid for ttlHours.
func NewTokenService(secret []byte, ttlHours int) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    time.Duration(ttlHours) * time.Hour,
		now:    time.Now,
	}
}

// Issue signs a token for subject expiring TTL from now.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiration in one pass. Any failure
// yields an invalid Verification; it never returns an error.
func (s *TokenService) Verify(tokenString string) Verification {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return Verification{}
	}

	return Verification{
		Valid:     true,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
