package account

import (
	"context"
	"sync"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

type memoryRepository struct {
	mu       sync.RWMutex
	byEmail  map[string]Account
	idToMail map[string]string
}

// NewMemoryRepository builds an in-memory account store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{byEmail: make(map[string]Account), idToMail: make(map[string]string)}
}

func (r *memoryRepository) Create(_ context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return apperr.Conflictf("email already registered")
	}
	r.byEmail[account.Email] = account
	r.idToMail[account.ID] = account.Email
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byEmail[email]
	if !ok {
		return Account{}, apperr.NotFoundf("account")
	}
	return account, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email, ok := r.idToMail[id]
	if !ok {
		return Account{}, apperr.NotFoundf("account")
	}
	return r.byEmail[email], nil
}

func (r *memoryRepository) UpdatePasswordHash(_ context.Context, id string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email, ok := r.idToMail[id]
	if !ok {
		return apperr.NotFoundf("account")
	}
	account := r.byEmail[email]
	account.PasswordHash = hash
	r.byEmail[email] = account
	return nil
}
