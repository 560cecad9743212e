package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitio/internal/amqp"
	"sitio/internal/core"
)

func TestAddExpenseDefaultsAndPublishes(t *testing.T) {
	repo := newTestStorage(t)
	pub := &fakePublisher{}
	svc := NewFinanceService(repo, pub)

	created, err := svc.AddExpense(context.Background(), core.Expense{
		MonthYear: "2026-09",
		Name:      "Rent",
		Category:  "Housing",
		Amount:    950,
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	if created.Currency != core.DefaultCurrency {
		t.Errorf("Currency = %q, want default EUR", created.Currency)
	}
	if created.Status != core.StatusPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
	if created.DateAdded == "" {
		t.Error("DateAdded should default to today")
	}

	events := pub.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].ID != created.ID || events[0].Event != amqp.EventCreated {
		t.Errorf("event = %+v, want created event for id %d", events[0], created.ID)
	}
}

func TestAddExpensePublishFailureIsNonFatal(t *testing.T) {
	repo := newTestStorage(t)
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewFinanceService(repo, pub)

	created, err := svc.AddExpense(context.Background(), core.Expense{
		MonthYear: "2026-09",
		Name:      "Rent",
		Category:  "Housing",
		Amount:    950,
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v, want nil despite publish failure", err)
	}

	stored, err := repo.GetExpense(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if stored.Name != "Rent" {
		t.Errorf("stored expense = %+v", stored)
	}
}

func TestAddExpenseWithoutPublisher(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewFinanceService(repo, nil)

	if _, err := svc.AddExpense(context.Background(), core.Expense{
		MonthYear: "2026-09", Name: "Rent", Category: "Housing", Amount: 950,
	}); err != nil {
		t.Fatalf("AddExpense() without publisher error = %v", err)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	svc := NewFinanceService(newTestStorage(t), nil)

	tests := []struct {
		name    string
		expense core.Expense
	}{
		{"missing name", core.Expense{MonthYear: "2026-09", Category: "Misc", Amount: 5}},
		{"missing category", core.Expense{MonthYear: "2026-09", Name: "X", Amount: 5}},
		{"zero amount", core.Expense{MonthYear: "2026-09", Name: "X", Category: "Misc"}},
		{"negative amount", core.Expense{MonthYear: "2026-09", Name: "X", Category: "Misc", Amount: -2}},
		{"bad month key", core.Expense{MonthYear: "september", Name: "X", Category: "Misc", Amount: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(context.Background(), tt.expense)
			if err == nil {
				t.Fatal("AddExpense() = nil error, want validation error")
			}
			if !core.IsValidation(err) {
				t.Errorf("error %v should be a validation error", err)
			}
		})
	}
}

func TestMonthFinanceDefaultsIncome(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewFinanceService(repo, nil)
	ctx := context.Background()

	finance, err := svc.MonthFinance(ctx, "2026-09")
	if err != nil {
		t.Fatalf("MonthFinance() error = %v", err)
	}
	if finance.Income.Amount != 0 || finance.Income.Currency != core.DefaultCurrency {
		t.Errorf("Income = %+v, want zero EUR default", finance.Income)
	}
	if len(finance.Expenses) != 0 {
		t.Errorf("Expenses = %v, want empty", finance.Expenses)
	}

	if _, err := svc.UpsertIncome(ctx, "2026-09", core.Income{Amount: 2500}); err != nil {
		t.Fatalf("UpsertIncome() error = %v", err)
	}

	finance, err = svc.MonthFinance(ctx, "2026-09")
	if err != nil {
		t.Fatalf("MonthFinance() error = %v", err)
	}
	if finance.Income.Amount != 2500 || finance.Income.Currency != core.DefaultCurrency {
		t.Errorf("Income = %+v, want 2500 EUR (currency defaulted)", finance.Income)
	}
}

func TestMigratePending(t *testing.T) {
	repo := newTestStorage(t)
	pub := &fakePublisher{}
	svc := NewFinanceService(repo, pub)
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	seed := func(name, status string) {
		t.Helper()
		if _, err := repo.InsertExpense(ctx, core.Expense{
			MonthYear: "2026-08", Name: name, Category: "Misc",
			Amount: 10, Currency: "EUR", Status: status, DateAdded: "2026-08-15",
		}); err != nil {
			t.Fatalf("InsertExpense(%s) error = %v", name, err)
		}
	}
	seed("Gym", core.StatusPending)
	seed("Phone", "Pending") // free-form status, still carried over
	seed("Groceries", core.StatusPaid)

	moved, err := svc.MigratePending(ctx, now)
	if err != nil {
		t.Fatalf("MigratePending() error = %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	current, err := repo.ListExpenses(ctx, "2026-09")
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(current) != 2 || current[0].Name != "Gym" || current[1].Name != "Phone" {
		t.Errorf("current month = %+v, want the Gym and Phone expenses", current)
	}

	events := pub.published()
	if len(events) != 2 {
		t.Fatalf("events = %+v, want two migrated events", events)
	}
	for _, ev := range events {
		if ev.Event != amqp.EventMigrated || ev.MonthYear != "2026-09" {
			t.Errorf("event = %+v, want migrated into 2026-09", ev)
		}
	}

	// Running again moves nothing.
	moved, err = svc.MigratePending(ctx, now)
	if err != nil {
		t.Fatalf("second MigratePending() error = %v", err)
	}
	if moved != 0 {
		t.Errorf("second run moved = %d, want 0", moved)
	}
}

func TestUpdateExpenseRejectsBadAmount(t *testing.T) {
	svc := NewFinanceService(newTestStorage(t), nil)

	bad := -5.0
	_, err := svc.UpdateExpense(context.Background(), "2026-09", 1, core.ExpensePatch{Amount: &bad})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("UpdateExpense() error = %v, want ErrInvalidAmount", err)
	}
}
