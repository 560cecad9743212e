package services

import (
	"context"
	"testing"
	"time"

	"sitio/internal/core"
)

func TestProcessMonthMaterializesActiveTemplates(t *testing.T) {
	repo := newTestStorage(t)
	finance := NewFinanceService(repo, nil)
	processor := NewRecurringProcessor(repo, finance)
	ctx := context.Background()
	now := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)

	seed := func(rec core.RecurringExpense) {
		t.Helper()
		if _, err := repo.InsertRecurring(ctx, rec); err != nil {
			t.Fatalf("InsertRecurring(%s) error = %v", rec.Title, err)
		}
	}
	seed(core.RecurringExpense{Title: "Gym", Amount: 35, Category: "Health", Currency: "EUR", DueDay: 5, Active: true})
	seed(core.RecurringExpense{Title: "Rent", Amount: 950, Category: "Housing", Currency: "EUR", DueDay: 1, Active: true})
	seed(core.RecurringExpense{Title: "Old box", Amount: 10, Category: "Misc", Currency: "EUR", DueDay: 1, Active: false})
	// Incomplete: no category.
	seed(core.RecurringExpense{Title: "Mystery", Amount: 5, Currency: "EUR", DueDay: 1, Active: true})

	inserted, err := processor.ProcessMonth(ctx, now)
	if err != nil {
		t.Fatalf("ProcessMonth() error = %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2 (active complete templates only)", inserted)
	}

	expenses, err := repo.ListExpenses(ctx, core.MonthKey("2026-09"))
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("month has %d expenses, want 2", len(expenses))
	}
	for _, e := range expenses {
		if e.Status != core.StatusPending {
			t.Errorf("expense %q status = %q, want pending", e.Name, e.Status)
		}
		if e.DateAdded != "2026-09-03" {
			t.Errorf("expense %q date_added = %q, want 2026-09-03", e.Name, e.DateAdded)
		}
	}
}

func TestProcessMonthIsIdempotent(t *testing.T) {
	repo := newTestStorage(t)
	finance := NewFinanceService(repo, nil)
	processor := NewRecurringProcessor(repo, finance)
	ctx := context.Background()
	now := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)

	if _, err := repo.InsertRecurring(ctx, core.RecurringExpense{
		Title: "Gym", Amount: 35, Category: "Health", Currency: "EUR", DueDay: 5, Active: true,
	}); err != nil {
		t.Fatalf("InsertRecurring() error = %v", err)
	}

	first, err := processor.ProcessMonth(ctx, now)
	if err != nil {
		t.Fatalf("first ProcessMonth() error = %v", err)
	}
	if first != 1 {
		t.Errorf("first run inserted = %d, want 1", first)
	}

	second, err := processor.ProcessMonth(ctx, now)
	if err != nil {
		t.Fatalf("second ProcessMonth() error = %v", err)
	}
	if second != 0 {
		t.Errorf("second run inserted = %d, want 0", second)
	}

	expenses, err := repo.ListExpenses(ctx, core.MonthKey("2026-09"))
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != 1 {
		t.Errorf("month has %d expenses, want 1", len(expenses))
	}
}

func TestProcessMonthSkipsManuallyAddedDuplicate(t *testing.T) {
	repo := newTestStorage(t)
	finance := NewFinanceService(repo, nil)
	processor := NewRecurringProcessor(repo, finance)
	ctx := context.Background()
	now := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)

	if _, err := repo.InsertRecurring(ctx, core.RecurringExpense{
		Title: "Rent", Amount: 950, Category: "Housing", Currency: "EUR", DueDay: 1, Active: true,
	}); err != nil {
		t.Fatalf("InsertRecurring() error = %v", err)
	}
	// The user already added September's rent by hand.
	if _, err := repo.InsertExpense(ctx, core.Expense{
		MonthYear: "2026-09", Name: "Rent", Category: "Housing",
		Amount: 950, Currency: "EUR", Status: core.StatusPaid, DateAdded: "2026-09-01",
	}); err != nil {
		t.Fatalf("InsertExpense() error = %v", err)
	}

	inserted, err := processor.ProcessMonth(ctx, now)
	if err != nil {
		t.Fatalf("ProcessMonth() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0 for duplicate title", inserted)
	}
}
