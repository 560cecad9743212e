package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitio/internal/amqp"
	"sitio/internal/core"
	"sitio/internal/storage"
)

// ExpensePublisher publishes expense event notifications. Implemented by the
// AMQP client; nil-able so the service runs without a broker.
type ExpensePublisher interface {
	PublishExpenseEvent(ctx context.Context, id int64, monthYear, event string) error
}

// FinanceService orchestrates the monthly income and expense operations
// across SQLite and AMQP.
type FinanceService struct {
	storage   *storage.SQLiteRepository
	publisher ExpensePublisher
}

func NewFinanceService(storage *storage.SQLiteRepository, publisher ExpensePublisher) *FinanceService {
	return &FinanceService{
		storage:   storage,
		publisher: publisher,
	}
}

// MonthFinance returns a month's income next to its expenses. A month with
// no recorded income reads as the zero-EUR default, never as an error.
func (s *FinanceService) MonthFinance(ctx context.Context, month core.MonthKey) (core.MonthFinance, error) {
	income, err := s.storage.GetIncome(ctx, month)
	if errors.Is(err, core.ErrNotFound) {
		income = core.DefaultIncome()
	} else if err != nil {
		return core.MonthFinance{}, fmt.Errorf("get income: %w", err)
	}

	expenses, err := s.storage.ListExpenses(ctx, month)
	if err != nil {
		return core.MonthFinance{}, fmt.Errorf("list expenses: %w", err)
	}

	return core.MonthFinance{Income: income, Expenses: expenses}, nil
}

// UpsertIncome records a month's single income entry, replacing any prior value.
func (s *FinanceService) UpsertIncome(ctx context.Context, month core.MonthKey, income core.Income) (core.Income, error) {
	income.MonthYear = month
	if strings.TrimSpace(income.Currency) == "" {
		income.Currency = core.DefaultCurrency
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}
	return s.storage.UpsertIncome(ctx, income)
}

// DeleteIncome removes a month's income entry.
func (s *FinanceService) DeleteIncome(ctx context.Context, month core.MonthKey) error {
	return s.storage.DeleteIncome(ctx, month)
}

// AddExpense stores a new expense, filling defaults for currency, status and
// date, and notifies the export pipeline. A publish failure never fails the
// request: the expense is already stored locally.
func (s *FinanceService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if strings.TrimSpace(e.Currency) == "" {
		e.Currency = core.DefaultCurrency
	}
	if strings.TrimSpace(e.Status) == "" {
		e.Status = core.StatusPending
	}
	if strings.TrimSpace(e.DateAdded) == "" {
		e.DateAdded = time.Now().Format(core.DateLayout)
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if _, _, err := e.MonthYear.Parts(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, created.ID, created.MonthYear, amqp.EventCreated)
	return created, nil
}

// GetExpense returns a single expense by ID.
func (s *FinanceService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.storage.GetExpense(ctx, id)
}

// UpdateExpense applies a partial update to an expense of the given month and
// returns the stored row. An ID belonging to another month is not found.
func (s *FinanceService) UpdateExpense(ctx context.Context, month core.MonthKey, id int64, patch core.ExpensePatch) (core.Expense, error) {
	if patch.Amount != nil && *patch.Amount <= 0 {
		return core.Expense{}, core.ErrInvalidAmount
	}
	return s.storage.UpdateExpense(ctx, month, id, patch)
}

// DeleteExpense removes an expense from the given month.
func (s *FinanceService) DeleteExpense(ctx context.Context, month core.MonthKey, id int64) error {
	return s.storage.DeleteExpense(ctx, month, id)
}

// MigratePending carries every pending expense of the previous month over to
// the month containing now. Paid expenses stay behind.
func (s *FinanceService) MigratePending(ctx context.Context, now time.Time) (int64, error) {
	return s.MigratePendingTo(ctx, core.CurrentMonthKey(now))
}

// MigratePendingTo runs the carry-over into an explicit target month.
func (s *FinanceService) MigratePendingTo(ctx context.Context, to core.MonthKey) (int64, error) {
	from, err := to.Previous()
	if err != nil {
		return 0, err
	}

	// Snapshot the pending rows first so their IDs survive the move.
	previous, err := s.storage.ListExpenses(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("list previous month: %w", err)
	}

	moved, err := s.storage.MovePendingExpenses(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("move pending expenses: %w", err)
	}

	for _, e := range previous {
		if core.IsPending(e.Status) {
			s.publishEvent(ctx, e.ID, to, amqp.EventMigrated)
		}
	}

	slog.InfoContext(ctx, "Migrated pending expenses",
		"from", from,
		"to", to,
		"moved", moved)
	return moved, nil
}

func (s *FinanceService) publishEvent(ctx context.Context, id int64, month core.MonthKey, event string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, id, month.String(), event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", id,
			"event", event,
			"error", err)
	}
}
