package domain

import "time"

// Event types
const (
	EventTypeTransactionRecorded = "transaction.recorded"
)

// Event is an envelope published after a ledger mutation.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewTransactionRecordedEvent builds the envelope for a recorded transaction.
func NewTransactionRecordedEvent(id, userID string, t Transaction, balance string) *Event {
	return &Event{
		ID:     id,
		Type:   EventTypeTransactionRecorded,
		UserID: userID,
		Payload: map[string]any{
			"transaction_id": t.ID,
			"type":           string(t.Type),
			"category":       string(t.Category),
			"amount":         t.Amount.String(),
			"balance":        balance,
			"date":           t.Date(),
		},
		OccurredAt: t.CreatedAt,
	}
}
