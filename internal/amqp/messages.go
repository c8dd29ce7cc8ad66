package amqp

import (
	"encoding/json"
	"time"

	"contas/internal/core"
)

// Event types, also used as routing keys.
const (
	EventEntryCreated = "entry.created"
	EventEntrySettled = "entry.settled"
	EventEntryOverdue = "entry.overdue"
)

// EntryEvent describes something that happened to one ledger entry.
// Amount travels as a decimal string so no precision is lost.
type EntryEvent struct {
	Type        string    `json:"type"`
	EntryID     string    `json:"entry_id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	DueDate     string    `json:"due_date"`
	Settled     bool      `json:"settled"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryEvent snapshots e into an event of the given type
func NewEntryEvent(eventType string, e core.Entry) *EntryEvent {
	return &EntryEvent{
		Type:        eventType,
		EntryID:     e.ID.String(),
		Kind:        e.Kind.String(),
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		DueDate:     e.DueDate.String(),
		Settled:     e.Settled,
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventFromJSON creates a message from JSON bytes
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var msg EntryEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
