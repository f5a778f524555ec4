package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds carried by ExpenseEvent.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ExpenseEvent is a lightweight change notification. It carries only the
// expense id; consumers fetch the current record from the database.
type ExpenseEvent struct {
	Event     string    `json:"event"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(event string, id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Event:     event,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Event {
	case EventCreated, EventUpdated, EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", msg.Event)
	}
	return &msg, nil
}
