package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried by expense messages.
const (
	EventCreated  = "created"
	EventMigrated = "migrated"
)

// ExpenseEventMessage is a lightweight notification that an expense was
// written. It carries only the ID and the month partition; the export worker
// fetches the full expense from the database.
type ExpenseEventMessage struct {
	ID        int64     `json:"id"`
	MonthYear string    `json:"month_year"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEventMessage creates a new event message stamped with the current time.
func NewExpenseEventMessage(id int64, monthYear, event string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ID:        id,
		MonthYear: monthYear,
		Event:     event,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
