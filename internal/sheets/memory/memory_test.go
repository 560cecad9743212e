package memory

import (
	"context"
	"testing"

	"sitio/internal/core"
)

func TestAppendExpense(t *testing.T) {
	m := New()

	ref, err := m.AppendExpense(context.Background(), core.Expense{
		MonthYear: "2026-09",
		Name:      "Rent",
		Category:  "Housing",
		Amount:    950,
		Currency:  "EUR",
		Status:    core.StatusPending,
		DateAdded: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("AppendExpense() error = %v", err)
	}
	if ref != "memory:1" {
		t.Errorf("ref = %q, want memory:1", ref)
	}

	rows := m.Rows()
	if len(rows) != 1 || rows[0].Name != "Rent" {
		t.Errorf("Rows() = %+v, want one Rent row", rows)
	}
}

func TestAppendExpenseValidates(t *testing.T) {
	m := New()

	_, err := m.AppendExpense(context.Background(), core.Expense{
		MonthYear: "2026-09",
		Category:  "Housing",
		Amount:    950,
		Currency:  "EUR",
	})
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}
	if len(m.Rows()) != 0 {
		t.Error("invalid expense must not be appended")
	}
}
