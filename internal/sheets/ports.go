package sheets

import (
	"context"

	"sitio/internal/core"
)

// ExpenseAppender is the outbound port for exporting expenses to a
// spreadsheet backend.
type ExpenseAppender interface {
	AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
}
