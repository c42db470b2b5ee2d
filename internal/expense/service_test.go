package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func mustCreate(t *testing.T, svc *Service, owner string, input CreateInput) Expense {
	t.Helper()
	exp, err := svc.Create(context.Background(), owner, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return exp
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"negative amount", CreateInput{Amount: "-5.00", Category: "food", Date: "2024-01-10"}},
		{"missing amount", CreateInput{Category: "food", Date: "2024-01-10"}},
		{"missing category", CreateInput{Amount: "5.00", Date: "2024-01-10"}},
		{"blank category", CreateInput{Amount: "5.00", Category: "   ", Date: "2024-01-10"}},
		{"missing date", CreateInput{Amount: "5.00", Category: "food"}},
		{"malformed date", CreateInput{Amount: "5.00", Category: "food", Date: "10/01/2024"}},
	}

	for _, tc := range cases {
		if _, err := svc.Create(ctx, owner, tc.input); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateZeroAmountAllowed(t *testing.T) {
	svc := newTestService()
	exp := mustCreate(t, svc, uuid.NewString(), CreateInput{Amount: "0", Category: "misc", Date: "2024-01-10"})
	if exp.AmountCents != 0 {
		t.Fatalf("expected zero cents, got %d", exp.AmountCents)
	}
}

func TestOwnerIsolation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ownerA := uuid.NewString()
	ownerB := uuid.NewString()

	exp := mustCreate(t, svc, ownerA, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-10"})

	if _, err := svc.Get(ctx, ownerB, exp.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get as foreign owner: expected not found, got %v", err)
	}
	if _, err := svc.Update(ctx, ownerB, exp.ID, UpdateInput{Amount: strPtr("99.00")}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update as foreign owner: expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, ownerB, exp.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("delete as foreign owner: expected not found, got %v", err)
	}

	listed, err := svc.List(ctx, ownerB, Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("foreign owner must not see records, got %d", len(listed))
	}

	// The owner's record is untouched by the foreign attempts.
	got, err := svc.Get(ctx, ownerA, exp.ID)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if got.AmountCents != 1000 {
		t.Fatalf("record modified by foreign owner: %d", got.AmountCents)
	}
}

func TestForeignAndMissingAreIndistinguishable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ownerA := uuid.NewString()
	ownerB := uuid.NewString()

	exp := mustCreate(t, svc, ownerA, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-10"})

	_, foreignErr := svc.Get(ctx, ownerB, exp.ID)
	_, missingErr := svc.Get(ctx, ownerB, uuid.NewString())

	if foreignErr == nil || missingErr == nil {
		t.Fatalf("expected both lookups to fail")
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Fatalf("foreign and missing lookups must fail identically: %q vs %q", foreignErr, missingErr)
	}
}

func TestListDateRangeInclusive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	mustCreate(t, svc, owner, CreateInput{Amount: "1.00", Category: "food", Date: "2023-12-31"})
	first := mustCreate(t, svc, owner, CreateInput{Amount: "2.00", Category: "food", Date: "2024-01-01"})
	last := mustCreate(t, svc, owner, CreateInput{Amount: "3.00", Category: "food", Date: "2024-01-31"})
	mustCreate(t, svc, owner, CreateInput{Amount: "4.00", Category: "food", Date: "2024-02-01"})

	listed, err := svc.List(ctx, owner, Query{From: "2024-01-01", To: "2024-01-31"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 records in closed interval, got %d", len(listed))
	}
	ids := map[string]bool{listed[0].ID: true, listed[1].ID: true}
	if !ids[first.ID] || !ids[last.ID] {
		t.Fatalf("boundary dates must be included")
	}
}

func TestListCategoryFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	mustCreate(t, svc, owner, CreateInput{Amount: "1.00", Category: "food", Date: "2024-01-10"})
	mustCreate(t, svc, owner, CreateInput{Amount: "2.00", Category: "travel", Date: "2024-01-11"})

	listed, err := svc.List(ctx, owner, Query{Category: "travel"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Category != "travel" {
		t.Fatalf("expected exactly the travel record, got %+v", listed)
	}
}

func TestListOrderingStable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	mustCreate(t, svc, owner, CreateInput{Amount: "1.00", Category: "food", Date: "2024-01-10"})
	mustCreate(t, svc, owner, CreateInput{Amount: "2.00", Category: "food", Date: "2024-03-05"})
	mustCreate(t, svc, owner, CreateInput{Amount: "3.00", Category: "food", Date: "2024-02-20"})

	listed, err := svc.List(ctx, owner, Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Date.After(listed[i-1].Date) {
			t.Fatalf("expected date-descending order, got %s before %s",
				FormatDate(listed[i-1].Date), FormatDate(listed[i].Date))
		}
	}
}

func TestPartialUpdatePreservesUnspecifiedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	exp := mustCreate(t, svc, owner, CreateInput{
		Amount:      "10.00",
		Category:    "food",
		Date:        "2024-01-10",
		Description: "team lunch at the corner place",
	})

	updated, err := svc.Update(ctx, owner, exp.ID, UpdateInput{Amount: strPtr("12.50")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AmountCents != 1250 {
		t.Fatalf("expected 1250 cents, got %d", updated.AmountCents)
	}
	if updated.Description != "team lunch at the corner place" {
		t.Fatalf("description must be preserved verbatim, got %q", updated.Description)
	}
	if updated.Category != "food" || !updated.Date.Equal(exp.Date) {
		t.Fatalf("unspecified fields changed: %+v", updated)
	}
	if updated.OwnerID != owner || updated.ID != exp.ID {
		t.Fatalf("owner and id must be immutable")
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	exp := mustCreate(t, svc, owner, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-10"})

	if _, err := svc.Update(ctx, owner, exp.ID, UpdateInput{Amount: strPtr("-1")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for negative amount, got %v", err)
	}
	if _, err := svc.Update(ctx, owner, exp.ID, UpdateInput{Category: strPtr("  ")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for blank category, got %v", err)
	}

	// The failed updates left the record untouched.
	got, err := svc.Get(ctx, owner, exp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AmountCents != 1000 || got.Category != "food" {
		t.Fatalf("failed update must not commit partial state: %+v", got)
	}
}

func TestDeleteIdempotentFailure(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	exp := mustCreate(t, svc, owner, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-10"})

	if err := svc.Delete(ctx, owner, exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	firstErr := svc.Delete(ctx, owner, exp.ID)
	secondErr := svc.Delete(ctx, owner, exp.ID)
	if !errors.Is(firstErr, apperr.ErrNotFound) || !errors.Is(secondErr, apperr.ErrNotFound) {
		t.Fatalf("expected not found both times, got %v and %v", firstErr, secondErr)
	}
	if firstErr.Error() != secondErr.Error() {
		t.Fatalf("repeated deletes must fail identically")
	}
}

func TestMonthlyTotalsExactGroupingAndOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	mustCreate(t, svc, owner, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-05"})
	mustCreate(t, svc, owner, CreateInput{Amount: "5.50", Category: "travel", Date: "2024-01-20"})
	mustCreate(t, svc, owner, CreateInput{Amount: "20.00", Category: "food", Date: "2024-02-14"})

	totals, err := svc.MonthlyTotals(ctx, owner, Query{})
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}

	want := []MonthlyTotal{
		{Year: 2024, Month: 2, TotalCents: 2000},
		{Year: 2024, Month: 1, TotalCents: 1550},
	}
	if len(totals) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(totals))
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], totals[i])
		}
	}
}

func TestMonthlyTotalsOmitsEmptyMonthsAndRespectsFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.NewString()

	mustCreate(t, svc, owner, CreateInput{Amount: "10.00", Category: "food", Date: "2023-11-05"})
	mustCreate(t, svc, owner, CreateInput{Amount: "20.00", Category: "travel", Date: "2024-02-14"})

	totals, err := svc.MonthlyTotals(ctx, owner, Query{Category: "travel"})
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected a single bucket, got %+v", totals)
	}
	if totals[0].Year != 2024 || totals[0].Month != 2 || totals[0].TotalCents != 2000 {
		t.Fatalf("unexpected bucket %+v", totals[0])
	}
}

func TestMonthlyTotalsScopedToOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ownerA := uuid.NewString()
	ownerB := uuid.NewString()

	mustCreate(t, svc, ownerA, CreateInput{Amount: "10.00", Category: "food", Date: "2024-01-05"})
	mustCreate(t, svc, ownerB, CreateInput{Amount: "99.00", Category: "food", Date: "2024-01-06"})

	totals, err := svc.MonthlyTotals(ctx, ownerA, Query{})
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}
	if len(totals) != 1 || totals[0].TotalCents != 1000 {
		t.Fatalf("aggregation leaked across owners: %+v", totals)
	}
}

func strPtr(s string) *string {
	return &s
}
