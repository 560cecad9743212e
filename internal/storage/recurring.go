package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sitio/internal/core"
)

// ListRecurring returns every recurring template, active or not.
func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount, category, currency, due_day, active
		 FROM recurring_expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	return scanRecurring(rows)
}

// ListActiveRecurring returns only templates eligible for materialization.
func (r *SQLiteRepository) ListActiveRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount, category, currency, due_day, active
		 FROM recurring_expenses WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active recurring: %w", err)
	}
	defer rows.Close()

	return scanRecurring(rows)
}

// GetRecurring returns a single template by ID.
func (r *SQLiteRepository) GetRecurring(ctx context.Context, id int64) (core.RecurringExpense, error) {
	var rec core.RecurringExpense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount, category, currency, due_day, active
		 FROM recurring_expenses WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Title, &rec.Amount, &rec.Category, &rec.Currency, &rec.DueDay, &rec.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, fmt.Errorf("recurring %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring %d: %w", id, err)
	}
	return rec, nil
}

// InsertRecurring stores a new template and returns it with its assigned ID.
func (r *SQLiteRepository) InsertRecurring(ctx context.Context, rec core.RecurringExpense) (core.RecurringExpense, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (title, amount, category, currency, due_day, active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Title, rec.Amount, rec.Category, rec.Currency, rec.DueDay, rec.Active)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring: last insert id: %w", err)
	}
	return r.GetRecurring(ctx, id)
}

// UpdateRecurring applies a partial update to a template and returns the
// stored row after the change.
func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, id int64, patch core.RecurringPatch) (core.RecurringExpense, error) {
	if patch.Empty() {
		return core.RecurringExpense{}, core.ErrEmptyUpdate
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *patch.Currency)
	}
	if patch.DueDay != nil {
		sets = append(sets, "due_day = ?")
		args = append(args, *patch.DueDay)
	}
	if patch.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *patch.Active)
	}
	args = append(args, id)

	query := "UPDATE recurring_expenses SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return core.RecurringExpense{}, fmt.Errorf("update recurring %d: %w", id, core.ErrNotFound)
	}
	return r.GetRecurring(ctx, id)
}

// DeleteRecurring removes a template.
func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM recurring_expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recurring %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete recurring %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanRecurring(rows *sql.Rows) ([]core.RecurringExpense, error) {
	out := make([]core.RecurringExpense, 0)
	for rows.Next() {
		var rec core.RecurringExpense
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Amount, &rec.Category, &rec.Currency, &rec.DueDay, &rec.Active); err != nil {
			return nil, fmt.Errorf("scan recurring: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring: %w", err)
	}
	return out, nil
}
