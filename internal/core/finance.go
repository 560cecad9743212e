package core

import (
	"strings"
	"time"
)

// StatusPending is the only expense status with defined migration semantics.
// Status is otherwise a free-form label ("paid" being the common other one).
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// IsPending reports whether a status label means "pending". Statuses are
// free-form text, so the match ignores case.
func IsPending(status string) bool {
	return strings.EqualFold(status, StatusPending)
}

// DefaultCurrency is assumed when a financial row carries no currency.
const DefaultCurrency = "EUR"

// DateLayout is the calendar-date format used throughout the store.
const DateLayout = "2006-01-02"

// Income is the single income entry of a month.
type Income struct {
	MonthYear MonthKey `json:"month_year,omitempty"`
	Amount    float64  `json:"amount"`
	Currency  string   `json:"currency"`
}

// DefaultIncome is what a month with no recorded income reads as.
func DefaultIncome() Income {
	return Income{Amount: 0, Currency: DefaultCurrency}
}

func (i Income) Validate() error {
	if i.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Currency) == "" {
		return &MissingFieldError{Field: "currency"}
	}
	return nil
}

// Expense is a one-off expense belonging to exactly one month partition.
type Expense struct {
	ID        int64    `json:"id"`
	MonthYear MonthKey `json:"month_year"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Amount    float64  `json:"amount"`
	Currency  string   `json:"currency"`
	Status    string   `json:"status"`
	DateAdded string   `json:"date_added"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return &MissingFieldError{Field: "name"}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &MissingFieldError{Field: "category"}
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Currency) == "" {
		return &MissingFieldError{Field: "currency"}
	}
	return nil
}

// ExpensePatch is a partial update to an expense; nil pointers are untouched.
type ExpensePatch struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
	Status   *string  `json:"status"`
}

// Empty reports whether the patch carries no changes.
func (p ExpensePatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Amount == nil &&
		p.Currency == nil && p.Status == nil
}

// RecurringExpense is a template that, while active, materializes into at
// most one pending expense per calendar month.
type RecurringExpense struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Currency string  `json:"currency"`
	DueDay   int     `json:"due_day"`
	Active   bool    `json:"active"`
}

// Complete reports whether the template carries everything needed to
// materialize an expense. Incomplete templates are skipped, not failed.
func (r RecurringExpense) Complete() bool {
	return strings.TrimSpace(r.Title) != "" &&
		r.Amount > 0 &&
		strings.TrimSpace(r.Category) != "" &&
		strings.TrimSpace(r.Currency) != ""
}

// Materialize builds the concrete pending expense for the month containing now.
func (r RecurringExpense) Materialize(now time.Time) Expense {
	return Expense{
		MonthYear: CurrentMonthKey(now),
		Name:      r.Title,
		Category:  r.Category,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Status:    StatusPending,
		DateAdded: now.Format(DateLayout),
	}
}

// RecurringPatch is a partial update to a recurring template.
type RecurringPatch struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Currency *string  `json:"currency"`
	DueDay   *int     `json:"due_day"`
	Active   *bool    `json:"active"`
}

// Empty reports whether the patch carries no changes.
func (p RecurringPatch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil &&
		p.Currency == nil && p.DueDay == nil && p.Active == nil
}

// MonthFinance is the income-plus-expenses view of one month.
type MonthFinance struct {
	Income   Income    `json:"income"`
	Expenses []Expense `json:"expenses"`
}
