package expense

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

// Service validates input and executes owner-scoped ledger operations. The
// owner identity always arrives as an explicit argument resolved by the
// authentication layer, never from the request payload.
type Service struct {
	repo Repository
}

// NewService builds an expense service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures the caller-supplied fields of a new expense. Amount
// and date are strings at this boundary; the service owns their parsing.
type CreateInput struct {
	Amount      string
	Category    string
	Date        string
	Description string
}

// Create validates and persists a new expense for the owner.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Expense, error) {
	amountCents, err := ParseAmountCents(input.Amount)
	if err != nil {
		return Expense{}, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return Expense{}, apperr.Validationf("category is required")
	}

	if strings.TrimSpace(input.Date) == "" {
		return Expense{}, apperr.Validationf("date is required")
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return Expense{}, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", input.Date)
	}

	exp := Expense{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		AmountCents: amountCents,
		Category:    category,
		Date:        date,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, exp); err != nil {
		return Expense{}, err
	}
	return exp, nil
}

// Get returns one of the owner's expenses.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Expense, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// Query carries the optional list/aggregation constraints in wire form.
type Query struct {
	Category string
	From     string
	To       string
}

// List returns the owner's expenses matching the query.
func (s *Service) List(ctx context.Context, ownerID string, query Query) ([]Expense, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID, filter)
}

// UpdateInput carries the partial-update fields. Nil means "leave as is".
type UpdateInput struct {
	Amount      *string
	Category    *string
	Date        *string
	Description *string
}

// Update applies a partial update to one of the owner's expenses. Owner and
// id are immutable and absent from the input by construction.
func (s *Service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (Expense, error) {
	var changes Changes

	if input.Amount != nil {
		amountCents, err := ParseAmountCents(*input.Amount)
		if err != nil {
			return Expense{}, err
		}
		changes.AmountCents = &amountCents
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return Expense{}, apperr.Validationf("category must not be empty")
		}
		changes.Category = &category
	}
	if input.Date != nil {
		date, err := ParseDate(*input.Date)
		if err != nil {
			return Expense{}, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", *input.Date)
		}
		changes.Date = &date
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		changes.Description = &description
	}

	return s.repo.Update(ctx, ownerID, id, changes)
}

// Delete removes one of the owner's expenses. Deleting a missing or foreign
// record fails with the same not-found error every time.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// MonthlyTotals aggregates the owner's matching expenses per calendar month,
// most recent period first.
func (s *Service) MonthlyTotals(ctx context.Context, ownerID string, query Query) ([]MonthlyTotal, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyTotals(ctx, ownerID, filter)
}

func buildFilter(query Query) (Filter, error) {
	filter := Filter{Category: strings.TrimSpace(query.Category)}

	if query.From != "" {
		from, err := ParseDate(query.From)
		if err != nil {
			return Filter{}, apperr.Validationf("invalid from date %q, expected YYYY-MM-DD", query.From)
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := ParseDate(query.To)
		if err != nil {
			return Filter{}, apperr.Validationf("invalid to date %q, expected YYYY-MM-DD", query.To)
		}
		filter.To = &to
	}
	return filter, nil
}
