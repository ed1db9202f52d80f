package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types
const (
	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
	ItemDeleted = "item.deleted"
)

// Event is the payload published after a successful item mutation.
type Event struct {
	Type       string      `json:"type"`
	ItemID     string      `json:"item_id"`
	UserID     string      `json:"user_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Item       interface{} `json:"item,omitempty"` // snapshot after the change; nil for deletes
}

// Encode returns the JSON body and the string attributes sent alongside it.
func (e Event) Encode() (string, map[string]string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", nil, err
	}
	attrs := map[string]string{
		"event_type": e.Type,
		"item_id":    e.ItemID,
	}
	return string(body), attrs, nil
}

// Publisher delivers events to a downstream system.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
