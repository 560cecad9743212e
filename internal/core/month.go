package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey is the YYYY-MM partition key financial rows belong to.
type MonthKey string

// NewMonthKey builds the partition key for a year and a 1-based month.
func NewMonthKey(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

// CurrentMonthKey returns the partition key of the calendar month containing t.
func CurrentMonthKey(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), int(t.Month()))
}

// Parts splits the key back into year and month.
func (k MonthKey) Parts() (year, month int, err error) {
	s := string(k)
	if len(s) != 7 || s[4] != '-' {
		return 0, 0, fmt.Errorf("malformed month key %q: %w", s, ErrInvalidMonth)
	}
	year, err = strconv.Atoi(s[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed month key %q: %w", s, ErrInvalidMonth)
	}
	month, err = strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month key %q: %w", s, ErrInvalidMonth)
	}
	return year, month, nil
}

// Previous returns the key of the preceding calendar month,
// rolling the year back across the January boundary.
func (k MonthKey) Previous() (MonthKey, error) {
	year, month, err := k.Parts()
	if err != nil {
		return "", err
	}
	month--
	if month == 0 {
		month = 12
		year--
	}
	return NewMonthKey(year, month), nil
}

func (k MonthKey) String() string { return string(k) }

// monthNames maps month names in Spanish, Italian and English to their
// 1-based number. Names shared between languages map to the same number.
var monthNames = map[string]int{
	// Spanish
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,

	// Italian
	"gennaio": 1, "febbraio": 2, "aprile": 4,
	"maggio": 5, "giugno": 6, "luglio": 7,
	"settembre": 9, "ottobre": 10, "novembre": 11, "dicembre": 12,

	// English
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// MonthNumber resolves a month path segment to its 1-based number.
// It accepts month names in Spanish, Italian and English (case-insensitive)
// as well as numeric months ("3", "03").
func MonthNumber(name string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return 0, ErrInvalidMonth
	}
	if n, ok := monthNames[s]; ok {
		return n, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n, nil
	}
	return 0, fmt.Errorf("unrecognized month %q: %w", name, ErrInvalidMonth)
}

// ResolveMonthKey turns the month and year path segments into a partition key.
func ResolveMonthKey(monthName, yearStr string) (MonthKey, error) {
	month, err := MonthNumber(monthName)
	if err != nil {
		return "", err
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil || year < 1 {
		return "", fmt.Errorf("unrecognized year %q: %w", yearStr, ErrInvalidMonth)
	}
	return NewMonthKey(year, month), nil
}
