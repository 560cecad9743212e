package services

import (
	"context"
	"strings"

	"sitio/internal/core"
	"sitio/internal/storage"
)

// RecurringService manages the recurring expense templates.
type RecurringService struct {
	storage *storage.SQLiteRepository
}

func NewRecurringService(storage *storage.SQLiteRepository) *RecurringService {
	return &RecurringService{storage: storage}
}

// List returns every template, active or not.
func (s *RecurringService) List(ctx context.Context) ([]core.RecurringExpense, error) {
	return s.storage.ListRecurring(ctx)
}

// Get returns a single template by ID.
func (s *RecurringService) Get(ctx context.Context, id int64) (core.RecurringExpense, error) {
	return s.storage.GetRecurring(ctx, id)
}

// Create stores a new template. Currency defaults to EUR and a missing due
// day to the first of the month; new templates start active unless told
// otherwise.
func (s *RecurringService) Create(ctx context.Context, rec core.RecurringExpense, activeSet bool) (core.RecurringExpense, error) {
	if strings.TrimSpace(rec.Title) == "" {
		return core.RecurringExpense{}, &core.MissingFieldError{Field: "title"}
	}
	if rec.Amount <= 0 {
		return core.RecurringExpense{}, core.ErrInvalidAmount
	}
	if strings.TrimSpace(rec.Category) == "" {
		return core.RecurringExpense{}, &core.MissingFieldError{Field: "category"}
	}
	if strings.TrimSpace(rec.Currency) == "" {
		rec.Currency = core.DefaultCurrency
	}
	if rec.DueDay < 1 || rec.DueDay > 31 {
		rec.DueDay = 1
	}
	if !activeSet {
		rec.Active = true
	}
	return s.storage.InsertRecurring(ctx, rec)
}

// Update applies a partial update to a template.
func (s *RecurringService) Update(ctx context.Context, id int64, patch core.RecurringPatch) (core.RecurringExpense, error) {
	if patch.Amount != nil && *patch.Amount <= 0 {
		return core.RecurringExpense{}, core.ErrInvalidAmount
	}
	return s.storage.UpdateRecurring(ctx, id, patch)
}

// Delete removes a template.
func (s *RecurringService) Delete(ctx context.Context, id int64) error {
	return s.storage.DeleteRecurring(ctx, id)
}
