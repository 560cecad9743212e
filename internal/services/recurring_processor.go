package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sitio/internal/core"
	"sitio/internal/storage"
)

// RecurringProcessor materializes active recurring templates into concrete
// pending expenses, at most once per template per calendar month.
type RecurringProcessor struct {
	storage        *storage.SQLiteRepository
	financeService *FinanceService
}

func NewRecurringProcessor(storage *storage.SQLiteRepository, financeService *FinanceService) *RecurringProcessor {
	return &RecurringProcessor{
		storage:        storage,
		financeService: financeService,
	}
}

// ProcessMonth walks every active template and inserts its expense into the
// month containing now. Incomplete templates are skipped, and a template
// whose title already names an expense in the month is left alone, which
// keeps the run idempotent. Returns how many expenses were inserted.
func (p *RecurringProcessor) ProcessMonth(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.financeService == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	month := core.CurrentMonthKey(now)
	templates, err := p.storage.ListActiveRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total_active", len(templates),
		"month", month)

	inserted := 0
	for _, tmpl := range templates {
		if !tmpl.Complete() {
			slog.WarnContext(ctx, "Skipping incomplete recurring template",
				"id", tmpl.ID,
				"title", tmpl.Title)
			continue
		}

		exists, err := p.storage.ExpenseExistsByName(ctx, month, tmpl.Title)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check for existing expense",
				"id", tmpl.ID,
				"title", tmpl.Title,
				"error", err)
			continue
		}
		if exists {
			continue
		}

		if _, err := p.financeService.AddExpense(ctx, tmpl.Materialize(now)); err != nil {
			slog.ErrorContext(ctx, "Failed to create expense from recurring template",
				"id", tmpl.ID,
				"title", tmpl.Title,
				"error", err)
			continue
		}

		inserted++
		slog.InfoContext(ctx, "Created expense from recurring template",
			"id", tmpl.ID,
			"title", tmpl.Title,
			"amount", tmpl.Amount,
			"month", month)
	}

	slog.InfoContext(ctx, "Recurring processing completed",
		"month", month,
		"inserted", inserted)
	return inserted, nil
}
