package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

// Issuer signs and resolves session tokens. It holds no session state; a
// token is reconstructable from the signing secret alone and expiry is the
// only invalidation mechanism.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an issuer with a fixed expiry horizon.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Used by tests to cross the expiry
// boundary deterministically.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs a token for the account and returns it with its expiry instant.
func (i *Issuer) Issue(accountID string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Resolve verifies the token signature and expiry and returns the account
// identity it was issued for. Missing, tampered and expired tokens all fail
// with the same error.
func (i *Issuer) Resolve(token string) (string, error) {
	if token == "" {
		return "", apperr.ErrAuth
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", apperr.ErrAuth
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperr.ErrAuth
	}
	return claims.Subject, nil
}
