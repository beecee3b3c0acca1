// internal/events/events.go
package events

import (
	"encoding/json"
	"time"
)

// Event types published by the portal.
const (
	TypePing         = "ping"
	TypeToastShown   = "toast.shown"
	TypeToastDismiss = "toast.dismissed"
)

// Event is the envelope written to SSE subscribers.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent encodes an envelope. Data that cannot be encoded is dropped.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}
