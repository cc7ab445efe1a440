package broker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/frahmantamala/interior-ledger/internal/core/events"
)

// EventMessage is the wire form of a ledger event on the exchange.
type EventMessage struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func NewEventMessage(e events.Event) *EventMessage {
	msg := &EventMessage{
		ID:         e.EventID(),
		Type:       e.EventType(),
		OccurredAt: e.OccurredAt(),
	}
	if data, ok := e.Payload().(map[string]interface{}); ok {
		msg.Data = data
	}
	return msg
}

func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *EventMessage) ToEvent() events.BaseEvent {
	return events.BaseEvent{
		ID:        m.ID,
		Type:      m.Type,
		Timestamp: m.OccurredAt,
		Data:      m.Data,
	}
}

func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("event message without type")
	}
	return &msg, nil
}

// RoutingKey prefixes the event type, e.g. "ledger.transfer.completed".
func RoutingKey(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
