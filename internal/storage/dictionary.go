package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sitio/internal/core"
)

// GetDictionary returns every dictionary entry keyed by its key.
func (r *SQLiteRepository) GetDictionary(ctx context.Context) (map[string]core.DictionaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, en, es, it FROM dictionary")
	if err != nil {
		return nil, fmt.Errorf("get dictionary: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]core.DictionaryEntry)
	for rows.Next() {
		var e core.DictionaryEntry
		if err := rows.Scan(&e.Key, &e.EN, &e.ES, &e.IT); err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		entries[e.Key] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary: %w", err)
	}
	return entries, nil
}

// GetDictionaryEntry returns a single entry by key.
func (r *SQLiteRepository) GetDictionaryEntry(ctx context.Context, key string) (core.DictionaryEntry, error) {
	var e core.DictionaryEntry
	err := r.db.QueryRowContext(ctx,
		"SELECT key, en, es, it FROM dictionary WHERE key = ?", key).
		Scan(&e.Key, &e.EN, &e.ES, &e.IT)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DictionaryEntry{}, fmt.Errorf("dictionary entry %q: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return core.DictionaryEntry{}, fmt.Errorf("get dictionary entry %q: %w", key, err)
	}
	return e, nil
}

// SetDictionaryText writes one language's cell of a dictionary entry,
// creating the entry when it does not exist yet.
func (r *SQLiteRepository) SetDictionaryText(ctx context.Context, key string, lang core.Language, text string) error {
	// Column name comes from the closed language set, never from input.
	col := string(lang)

	query := "INSERT INTO dictionary (key, " + col + ") VALUES (?, ?) " +
		"ON CONFLICT(key) DO UPDATE SET " + col + " = excluded." + col
	if _, err := r.db.ExecContext(ctx, query, key, text); err != nil {
		return fmt.Errorf("set dictionary %q (%s): %w", key, lang, err)
	}
	return nil
}
