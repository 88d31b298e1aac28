package integration

import (
	"encoding/json"
	"strings"
)

// WebhookEventKind classifies an inbound provider event by its effect
type WebhookEventKind string

const (
	// EventKindOrder carries an order draft or order status update
	EventKindOrder WebhookEventKind = "ORDER"
	// EventKindOrderRelease asks the POS to begin preparing a held order
	EventKindOrderRelease WebhookEventKind = "ORDER_RELEASE"
	// EventKindOrderCancel cancels an order on the provider side
	EventKindOrderCancel WebhookEventKind = "ORDER_CANCEL"
	// EventKindMenuStatus reports the outcome of an async menu job
	EventKindMenuStatus WebhookEventKind = "MENU_STATUS"
	// EventKindCourierStatus reports courier movement; acknowledged and dropped
	EventKindCourierStatus WebhookEventKind = "COURIER_STATUS"
	// EventKindUnknown is any event type the router has no handler for
	EventKindUnknown WebhookEventKind = "UNKNOWN"
)

// WebhookEvent is a decoded provider webhook before routing
type WebhookEvent struct {
	Kind    WebhookEventKind
	Type    string
	EventID string
	Payload map[string]json.RawMessage
}

// eventTypeField names tried in order when reading the event type
var eventTypeFields = []string{"event_type", "type", "event"}

// ParseWebhookEvent decodes a raw webhook body and classifies it.
// Unparseable bodies classify as UNKNOWN rather than erroring, so the
// router can acknowledge and drop them.
func ParseWebhookEvent(body []byte) *WebhookEvent {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return &WebhookEvent{Kind: EventKindUnknown, Payload: map[string]json.RawMessage{}}
	}

	ev := &WebhookEvent{Payload: payload}
	for _, f := range eventTypeFields {
		if raw, ok := payload[f]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				ev.Type = s
				break
			}
		}
	}
	// Only an explicit event_id keys the dedupe guard. Order aliases such
	// as "id" and "delivery_id" repeat on every event in an order's
	// lifecycle and must not collapse distinct events into one.
	if raw, ok := payload["event_id"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			ev.EventID = s
		}
	}
	ev.Kind = classifyEventType(ev.Type)
	return ev
}

func classifyEventType(eventType string) WebhookEventKind {
	t := strings.ToUpper(strings.TrimSpace(eventType))
	switch {
	case t == "":
		// Typeless bodies are acknowledged and dropped by the router
		return EventKindUnknown
	case strings.Contains(t, "MENU"):
		return EventKindMenuStatus
	case strings.Contains(t, "RELEASE"):
		return EventKindOrderRelease
	case strings.Contains(t, "CANCEL"):
		return EventKindOrderCancel
	case strings.Contains(t, "DASHER") || strings.Contains(t, "COURIER"):
		return EventKindCourierStatus
	case strings.Contains(t, "ORDER"):
		return EventKindOrder
	default:
		return EventKindUnknown
	}
}
