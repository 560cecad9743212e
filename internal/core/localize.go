package core

import "strings"

// LocalizedColumn maps a logical field and a language to the physical
// column holding that language's value.
func LocalizedColumn(field string, lang Language) string {
	return field + "_" + string(lang)
}

// AliasedColumns builds the SELECT list projecting one language's view of a
// localized entity at the SQL level: "id, company_es AS company, ...".
// Invariant columns are selected as-is.
func AliasedColumns(spec EntitySpec, lang Language) []string {
	cols := make([]string, 0, 1+len(spec.Localized)+len(spec.Invariant))
	cols = append(cols, "id")
	for _, f := range spec.Localized {
		cols = append(cols, LocalizedColumn(f, lang)+" AS "+f)
	}
	cols = append(cols, spec.Invariant...)
	return cols
}

// ProjectRow reduces a free-form row to one language's view in memory:
// keys carrying the requested language's suffix are kept with the suffix
// stripped, everything else is dropped.
func ProjectRow(row Row, lang Language) Row {
	suffix := "_" + string(lang)
	out := make(Row, len(row))
	for k, v := range row {
		if strings.HasSuffix(k, suffix) {
			out[strings.TrimSuffix(k, suffix)] = v
		}
	}
	return out
}
