package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitio/internal/amqp"
	"sitio/internal/core"
	"sitio/internal/sheets"
	"sitio/internal/storage"
)

// ExportWorker consumes expense events and appends the expenses to the
// spreadsheet backend.
type ExportWorker struct {
	storage  *storage.SQLiteRepository
	appender sheets.ExpenseAppender
}

func NewExportWorker(storage *storage.SQLiteRepository, appender sheets.ExpenseAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleExpenseEvent processes a single expense event from AMQP. The message
// only names the expense; the row itself is fetched from the database. An
// expense deleted before the event arrives is skipped, not retried.
func (w *ExportWorker) HandleExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing expense event",
		"id", msg.ID,
		"event", msg.Event)

	expense, err := w.storage.GetExpense(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Expense vanished before export, skipping",
			"id", msg.ID,
			"event", msg.Event)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.appender.AppendExpense(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Exported expense",
		"id", msg.ID,
		"event", msg.Event,
		"sheets_ref", ref,
		"name", expense.Name,
		"amount", expense.Amount)
	return nil
}
