package amqp

import (
	"encoding/json"
	"time"
)

// Event actions for transaction changes.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
)

// TransactionEvent is a lightweight queue message for exporting a transaction
// to the spreadsheet sink. It carries only the ID and version; the worker
// fetches the full row from the database.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id, action string, version int64) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		Action:    action,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
