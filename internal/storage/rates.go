package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sitio/internal/core"
)

// LastRateUpdate returns the most recent last_updated date stored for any
// currency, or the empty string when no rates have been stored yet.
func (r *SQLiteRepository) LastRateUpdate(ctx context.Context) (string, error) {
	var last sql.NullString
	err := r.db.QueryRowContext(ctx, "SELECT MAX(last_updated) FROM exchange_rates").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last rate update: %w", err)
	}
	if !last.Valid {
		return "", nil
	}
	return last.String, nil
}

// UpsertRates replaces the stored rate of every currency in the table within
// a single transaction, stamping them all with the same update date.
func (r *SQLiteRepository) UpsertRates(ctx context.Context, base string, rates core.RateTable, updated string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert rates: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO exchange_rates (currency, rate, base, last_updated) VALUES (?, ?, ?, ?)
		 ON CONFLICT(currency) DO UPDATE SET rate = excluded.rate, base = excluded.base, last_updated = excluded.last_updated`)
	if err != nil {
		return fmt.Errorf("upsert rates: prepare: %w", err)
	}
	defer stmt.Close()

	for currency, rate := range rates {
		if _, err := stmt.ExecContext(ctx, currency, rate, base, updated); err != nil {
			return fmt.Errorf("upsert rate %s: %w", currency, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert rates: commit: %w", err)
	}
	return nil
}

// ListRates returns every stored rate keyed by currency.
func (r *SQLiteRepository) ListRates(ctx context.Context) (core.RateTable, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT currency, rate FROM exchange_rates")
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	rates := make(core.RateTable)
	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return rates, nil
}
