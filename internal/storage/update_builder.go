package storage

import (
	"sort"
	"strings"

	"sitio/internal/core"
)

// BuildLocalizedUpdate compiles a patch against an entity's allow-list into a
// parameterized UPDATE. Column names come only from the compiled spec; patch
// values travel as bound parameters. The id placeholder is appended last.
func BuildLocalizedUpdate(spec core.EntitySpec, lang core.Language, patch map[string]any) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, core.ErrEmptyUpdate
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for _, key := range keys {
		col, ok := spec.UpdateColumn(key, lang)
		if !ok {
			return "", nil, &core.InvalidFieldError{Field: key}
		}
		sets = append(sets, col+" = ?")
		args = append(args, patch[key])
	}

	query := "UPDATE " + spec.Table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	return query, args, nil
}
