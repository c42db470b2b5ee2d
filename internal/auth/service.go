package auth

import (
	"context"
	"time"

	"github.com/spendtrack/spendtrack/internal/account"
)

// Service verifies credentials and issues session tokens.
type Service struct {
	accounts *account.Service
	issuer   *Issuer
}

// NewService constructs an auth service.
func NewService(accounts *account.Service, issuer *Issuer) *Service {
	return &Service{accounts: accounts, issuer: issuer}
}

// Session is the result of a successful login.
type Session struct {
	AccountID string
	Token     string
	ExpiresIn int64
}

// Login verifies the email/secret pair and issues a token on success. The
// store is never touched when verification fails.
func (s *Service) Login(ctx context.Context, email, secret string) (Session, error) {
	acct, err := s.accounts.Verify(ctx, email, secret)
	if err != nil {
		return Session{}, err
	}

	token, exp, err := s.issuer.Issue(acct.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccountID: acct.ID,
		Token:     token,
		ExpiresIn: int64(time.Until(exp).Seconds()),
	}, nil
}

// Issuer exposes the token issuer for the authentication middleware.
func (s *Service) Issuer() *Issuer {
	return s.issuer
}
