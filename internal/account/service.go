package account

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

const (
	minNameLen   = 2
	maxNameLen   = 50
	minSecretLen = 6
	maxSecretLen = 100
)

// dummyHash is compared against when an email lookup misses so that the
// failure path costs the same as a real digest comparison.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("spendtrack-dummy-credential"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// Service manages account lifecycle and credential verification.
type Service struct {
	repo Repository
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries the data required to register an account.
type RegisterInput struct {
	Name   string
	Email  string
	Secret string
}

// Register validates input, digests the secret and stores a new account.
// The plaintext secret is never stored or logged.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Account, error) {
	name := strings.TrimSpace(input.Name)
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return Account{}, apperr.Validationf("name must be between %d and %d characters", minNameLen, maxNameLen)
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return Account{}, err
	}

	if len(input.Secret) < minSecretLen || len(input.Secret) > maxSecretLen {
		return Account{}, apperr.Validationf("password must be between %d and %d characters", minSecretLen, maxSecretLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}

	return account, nil
}

// Verify checks an email/secret pair against the stored digest. Unknown
// emails and wrong secrets fail identically, and the unknown-email path still
// performs a digest comparison so timing does not reveal whether the email
// exists.
func (s *Service) Verify(ctx context.Context, email, secret string) (Account, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		normalized = strings.ToLower(strings.TrimSpace(email))
	}

	acct, findErr := s.repo.FindByEmail(ctx, normalized)
	if findErr != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
		return Account{}, apperr.ErrAuth
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(secret)); err != nil {
		return Account{}, apperr.ErrAuth
	}

	return acct, nil
}

// GetByID fetches an account by identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangeSecret verifies the current secret and replaces the stored digest
// with one derived from the new secret. Previously issued tokens remain
// valid until expiry; there is no revocation mechanism.
func (s *Service) ChangeSecret(ctx context.Context, id, current, next string) error {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.ErrAuth
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(current)); err != nil {
		return apperr.ErrAuth
	}

	if len(next) < minSecretLen || len(next) > maxSecretLen {
		return apperr.Validationf("password must be between %d and %d characters", minSecretLen, maxSecretLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePasswordHash(ctx, acct.ID, hash)
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", apperr.Validationf("email is required")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", apperr.Validationf("invalid email address")
	}
	return strings.ToLower(trimmed), nil
}
