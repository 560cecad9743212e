package storage

import (
	"context"
	"errors"
	"testing"

	"sitio/internal/core"
)

func TestRecurringCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.InsertRecurring(ctx, core.RecurringExpense{
		Title: "Gym", Amount: 35, Category: "Health", Currency: "EUR", DueDay: 5, Active: true,
	})
	if err != nil {
		t.Fatalf("InsertRecurring() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	active := false
	amount := 40.0
	updated, err := repo.UpdateRecurring(ctx, created.ID, core.RecurringPatch{Active: &active, Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateRecurring() error = %v", err)
	}
	if updated.Active || updated.Amount != 40 {
		t.Errorf("after update got %+v, want inactive with amount 40", updated)
	}
	if updated.Title != "Gym" {
		t.Errorf("Title = %q, want untouched %q", updated.Title, "Gym")
	}

	if err := repo.DeleteRecurring(ctx, created.ID); err != nil {
		t.Fatalf("DeleteRecurring() error = %v", err)
	}
	if _, err := repo.GetRecurring(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetRecurring() after delete error = %v, want ErrNotFound", err)
	}
}

func TestListActiveRecurring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertRecurring(ctx, core.RecurringExpense{
		Title: "Gym", Amount: 35, Category: "Health", Currency: "EUR", DueDay: 5, Active: true,
	}); err != nil {
		t.Fatalf("InsertRecurring() error = %v", err)
	}
	if _, err := repo.InsertRecurring(ctx, core.RecurringExpense{
		Title: "Old subscription", Amount: 10, Category: "Misc", Currency: "EUR", DueDay: 1, Active: false,
	}); err != nil {
		t.Fatalf("InsertRecurring() error = %v", err)
	}

	all, err := repo.ListRecurring(ctx)
	if err != nil {
		t.Fatalf("ListRecurring() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListRecurring() = %d rows, want 2", len(all))
	}

	activeOnly, err := repo.ListActiveRecurring(ctx)
	if err != nil {
		t.Fatalf("ListActiveRecurring() error = %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Title != "Gym" {
		t.Errorf("ListActiveRecurring() = %+v, want only Gym", activeOnly)
	}
}

func TestUpdateRecurringErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.UpdateRecurring(ctx, 1, core.RecurringPatch{}); !errors.Is(err, core.ErrEmptyUpdate) {
		t.Errorf("empty patch error = %v, want ErrEmptyUpdate", err)
	}

	title := "Ghost"
	if _, err := repo.UpdateRecurring(ctx, 999, core.RecurringPatch{Title: &title}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing template error = %v, want ErrNotFound", err)
	}
}
