package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
	EventCommentAdded    = "comment_added"
)

// BookingEvents lists every type carrying a BookingEventPayload.
var BookingEvents = []string{EventBookingCreated, EventBookingApproved, EventBookingRejected}

// BookingEventPayload is a snapshot of the booking after the change.
type BookingEventPayload struct {
	BookingID   int64     `json:"booking_id"`
	ItemID      int64     `json:"item_id"`
	OwnerID     int64     `json:"owner_id"`
	BookerID    int64     `json:"booker_id"`
	Status      string    `json:"status"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ChangedByID int64     `json:"changed_by_id,omitempty"`
}

type CommentEventPayload struct {
	CommentID int64 `json:"comment_id"`
	ItemID    int64 `json:"item_id"`
	AuthorID  int64 `json:"author_id"`
}

type Event struct {
	Type       string
	Payload    json.RawMessage
	OccurredAt time.Time
}

func (e *Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s: empty payload", e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}

type EventHandler func(event *Event) error

// EventBus is a synchronous in-process dispatcher. Handlers run in
// subscription order on the publisher's goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	now      func() time.Time
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: map[string][]EventHandler{}, now: time.Now}
}

func (b *EventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every handler; a failing handler does not
// stop delivery and all failures are joined into the returned error.
func (b *EventBus) Publish(event *Event) error {
	if b == nil || event == nil {
		return nil
	}
	b.mu.RLock()
	targets := b.handlers[event.Type]
	b.mu.RUnlock()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = b.now()
	}

	errs := make([]error, 0, len(targets))
	for _, h := range targets {
		if err := h(event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler: %w", event.Type, err))
		}
	}
	return errors.Join(errs...)
}

// PublishJSON marshals payload and publishes it under eventType. Safe on a nil bus.
func (b *EventBus) PublishJSON(eventType string, payload any) error {
	if b == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return b.Publish(&Event{Type: eventType, Payload: raw})
}
