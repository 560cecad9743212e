package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sitio/internal/core"
)

// GetIncome returns the income recorded for a month.
func (r *SQLiteRepository) GetIncome(ctx context.Context, month core.MonthKey) (core.Income, error) {
	var income core.Income
	err := r.db.QueryRowContext(ctx,
		"SELECT month_year, amount, currency FROM income WHERE month_year = ?", month.String()).
		Scan(&income.MonthYear, &income.Amount, &income.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %s: %w", month, core.ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income %s: %w", month, err)
	}
	return income, nil
}

// UpsertIncome stores a month's single income entry, replacing any prior
// value, and returns the stored row.
func (r *SQLiteRepository) UpsertIncome(ctx context.Context, income core.Income) (core.Income, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income (month_year, amount, currency) VALUES (?, ?, ?)
		 ON CONFLICT(month_year) DO UPDATE SET amount = excluded.amount, currency = excluded.currency`,
		income.MonthYear.String(), income.Amount, income.Currency)
	if err != nil {
		return core.Income{}, fmt.Errorf("upsert income %s: %w", income.MonthYear, err)
	}
	return r.GetIncome(ctx, income.MonthYear)
}

// DeleteIncome removes a month's income entry.
func (r *SQLiteRepository) DeleteIncome(ctx context.Context, month core.MonthKey) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM income WHERE month_year = ?", month.String())
	if err != nil {
		return fmt.Errorf("delete income %s: %w", month, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete income %s: rows affected: %w", month, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete income %s: %w", month, core.ErrNotFound)
	}
	return nil
}

// ListExpenses returns a month's expenses in insertion order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, month core.MonthKey) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, month_year, name, category, amount, currency, status, date_added
		 FROM expenses WHERE month_year = ? ORDER BY id`, month.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses %s: %w", month, err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetExpense returns a single expense by ID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, month_year, name, category, amount, currency, status, date_added
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.MonthYear, &e.Name, &e.Category, &e.Amount, &e.Currency, &e.Status, &e.DateAdded)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// InsertExpense stores a new expense and returns it with its assigned ID.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (month_year, name, category, amount, currency, status, date_added)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.MonthYear.String(), e.Name, e.Category, e.Amount, e.Currency, e.Status, e.DateAdded)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: last insert id: %w", err)
	}
	return r.GetExpense(ctx, id)
}

// UpdateExpense applies a partial update to an expense and returns the stored
// row after the change. The expense must belong to the given month; an ID
// living in another month reads as not found.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, month core.MonthKey, id int64, patch core.ExpensePatch) (core.Expense, error) {
	if patch.Empty() {
		return core.Expense{}, core.ErrEmptyUpdate
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *patch.Currency)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	args = append(args, id, month.String())

	query := "UPDATE expenses SET " + strings.Join(sets, ", ") + " WHERE id = ? AND month_year = ?"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	return r.GetExpense(ctx, id)
}

// DeleteExpense removes an expense from the given month. An ID living in
// another month reads as not found and the row stays put.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, month core.MonthKey, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND month_year = ?", id, month.String())
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete expense %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// MovePendingExpenses reassigns every pending expense of one month to another
// and returns how many rows moved. Paid expenses stay where they are. The
// status match ignores case since statuses are free-form text.
func (r *SQLiteRepository) MovePendingExpenses(ctx context.Context, from, to core.MonthKey) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET month_year = ? WHERE month_year = ? AND LOWER(status) = ?",
		to.String(), from.String(), core.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("move pending expenses %s -> %s: %w", from, to, err)
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("move pending expenses %s -> %s: rows affected: %w", from, to, err)
	}
	return moved, nil
}

// ExpenseExistsByName reports whether the month already has an expense with
// the given name. Used to keep recurring materialization idempotent.
func (r *SQLiteRepository) ExpenseExistsByName(ctx context.Context, month core.MonthKey, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE month_year = ? AND name = ?",
		month.String(), name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("expense exists %s %q: %w", month, name, err)
	}
	return n > 0, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	expenses := make([]core.Expense, 0)
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.MonthYear, &e.Name, &e.Category, &e.Amount, &e.Currency, &e.Status, &e.DateAdded); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
