package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sitio/internal/core"
)

// ListLocalized returns every row of the entity projected to one language,
// localized columns aliased back to their logical names.
func (r *SQLiteRepository) ListLocalized(ctx context.Context, spec core.EntitySpec, lang core.Language) ([]core.Row, error) {
	query := "SELECT " + strings.Join(core.AliasedColumns(spec, lang), ", ") +
		" FROM " + spec.Table + " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", spec.Table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// GetRow returns the full physical row of an entity, every language column
// included.
func (r *SQLiteRepository) GetRow(ctx context.Context, spec core.EntitySpec, id int64) (core.Row, error) {
	query := "SELECT * FROM " + spec.Table + " WHERE id = ?"

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", spec.Table, id, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", spec.Table, id, err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("get %s %d: %w", spec.Table, id, core.ErrNotFound)
	}
	return result[0], nil
}

// InsertLocalized creates an entity row from values keyed by physical column
// and returns the stored row. Columns absent from values are written empty.
func (r *SQLiteRepository) InsertLocalized(ctx context.Context, spec core.EntitySpec, values map[string]any) (core.Row, error) {
	cols := spec.InsertColumns()
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		if v, ok := values[col]; ok {
			args[i] = v
		} else {
			args[i] = ""
		}
	}

	query := "INSERT INTO " + spec.Table + " (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.Join(placeholders, ", ") + ")"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", spec.Table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert %s: last insert id: %w", spec.Table, err)
	}

	return r.GetRow(ctx, spec, id)
}

// UpdateLocalized applies a patch to one language's view of an entity row and
// returns the full stored row after the update.
func (r *SQLiteRepository) UpdateLocalized(ctx context.Context, spec core.EntitySpec, id int64, lang core.Language, patch map[string]any) (core.Row, error) {
	query, args, err := BuildLocalizedUpdate(spec, lang, patch)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", spec.Table, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update %s %d: rows affected: %w", spec.Table, id, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update %s %d: %w", spec.Table, id, core.ErrNotFound)
	}

	return r.GetRow(ctx, spec, id)
}

// DeleteLocalized removes an entity row.
func (r *SQLiteRepository) DeleteLocalized(ctx context.Context, spec core.EntitySpec, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+spec.Table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", spec.Table, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %d: rows affected: %w", spec.Table, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s %d: %w", spec.Table, id, core.ErrNotFound)
	}
	return nil
}

// scanRows reads every row into a generic map keyed by column name.
// Byte slices are normalized to strings so rows marshal cleanly as JSON.
func scanRows(rows *sql.Rows) ([]core.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	out := make([]core.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make(core.Row, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}
