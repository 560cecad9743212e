package memory

import (
	"context"
	"fmt"
	"sync"

	"sitio/internal/core"

	ports "sitio/internal/sheets"
)

// Memory is an in-memory ExpenseAppender for tests and local development.
type Memory struct {
	mu   sync.Mutex
	rows []core.Expense
}

var _ ports.ExpenseAppender = (*Memory)(nil)

func New() *Memory {
	return &Memory{}
}

func (m *Memory) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, e)
	return fmt.Sprintf("memory:%d", len(m.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (m *Memory) Rows() []core.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Expense, len(m.rows))
	copy(out, m.rows)
	return out
}
