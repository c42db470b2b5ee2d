package expense

import (
	"context"
	"sort"
	"sync"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Expense
}

// NewMemoryRepository constructs a concurrency-safe in-memory repository for
// development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Expense)}
}

func (r *memoryRepository) Create(_ context.Context, exp Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[exp.ID]; exists {
		return apperr.Conflictf("expense exists")
	}
	r.storage[exp.ID] = exp
	return nil
}

func (r *memoryRepository) Get(_ context.Context, ownerID, id string) (Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.storage[id]
	if !ok || exp.OwnerID != ownerID {
		return Expense{}, apperr.NotFoundf("expense")
	}
	return exp, nil
}

func (r *memoryRepository) List(_ context.Context, ownerID string, filter Filter) ([]Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expenses []Expense
	for _, exp := range r.storage {
		if exp.OwnerID != ownerID || !matches(exp, filter) {
			continue
		}
		expenses = append(expenses, exp)
	}

	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses, nil
}

func (r *memoryRepository) Update(_ context.Context, ownerID, id string, changes Changes) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.storage[id]
	if !ok || exp.OwnerID != ownerID {
		return Expense{}, apperr.NotFoundf("expense")
	}
	if changes.AmountCents != nil {
		exp.AmountCents = *changes.AmountCents
	}
	if changes.Category != nil {
		exp.Category = *changes.Category
	}
	if changes.Date != nil {
		exp.Date = *changes.Date
	}
	if changes.Description != nil {
		exp.Description = *changes.Description
	}
	r.storage[id] = exp
	return exp, nil
}

func (r *memoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.storage[id]
	if !ok || exp.OwnerID != ownerID {
		return apperr.NotFoundf("expense")
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) MonthlyTotals(ctx context.Context, ownerID string, filter Filter) ([]MonthlyTotal, error) {
	expenses, err := r.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	type period struct{ year, month int }
	sums := make(map[period]int64)
	for _, exp := range expenses {
		y, m, _ := exp.Date.Date()
		sums[period{y, int(m)}] += exp.AmountCents
	}

	totals := make([]MonthlyTotal, 0, len(sums))
	for p, total := range sums {
		totals = append(totals, MonthlyTotal{Year: p.year, Month: p.month, TotalCents: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year > totals[j].Year
		}
		return totals[i].Month > totals[j].Month
	})
	return totals, nil
}

func matches(exp Expense, filter Filter) bool {
	if filter.Category != "" && exp.Category != filter.Category {
		return false
	}
	if filter.From != nil && exp.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && exp.Date.After(*filter.To) {
		return false
	}
	return true
}
