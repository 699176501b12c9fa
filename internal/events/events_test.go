package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_BookingPayloadRoundTrip(t *testing.T) {
	bus := NewEventBus()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	var got []*Event
	bus.Subscribe(func(e *Event) error {
		got = append(got, e)
		return nil
	}, BookingEvents...)

	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{
		BookingID: 7, ItemID: 3, Status: "WAITING", Start: start,
	}))

	require.Len(t, got, 1)
	assert.Equal(t, EventBookingCreated, got[0].Type)
	assert.Equal(t, fixed, got[0].OccurredAt)

	var p BookingEventPayload
	require.NoError(t, got[0].Decode(&p))
	assert.Equal(t, int64(7), p.BookingID)
	assert.Equal(t, "WAITING", p.Status)
	assert.True(t, p.Start.Equal(start))
}

func TestEventBus_RoutesByType(t *testing.T) {
	bus := NewEventBus()
	var bookings, comments int
	bus.Subscribe(func(*Event) error { bookings++; return nil }, EventBookingApproved, EventBookingRejected)
	bus.Subscribe(func(*Event) error { comments++; return nil }, EventCommentAdded)

	for _, typ := range []string{EventBookingApproved, EventBookingRejected, EventCommentAdded, "unknown"} {
		require.NoError(t, bus.Publish(&Event{Type: typ, Payload: []byte(`{}`)}))
	}

	assert.Equal(t, 2, bookings)
	assert.Equal(t, 1, comments)
}

func TestEventBus_HandlerFailureDoesNotStopDelivery(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	var secondRan bool

	bus.Subscribe(func(*Event) error { return boom }, EventCommentAdded)
	bus.Subscribe(func(*Event) error { secondRan = true; return nil }, EventCommentAdded)

	err := bus.PublishJSON(EventCommentAdded, CommentEventPayload{CommentID: 1})
	assert.ErrorIs(t, err, boom)
	assert.True(t, secondRan)
}

func TestEventBus_NilAndEmpty(t *testing.T) {
	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventBookingCreated, nil))
	assert.NoError(t, nilBus.Publish(&Event{Type: EventBookingCreated}))

	bus := NewEventBus()
	assert.NoError(t, bus.Publish(nil))

	ev := &Event{Type: EventCommentAdded}
	var p CommentEventPayload
	assert.Error(t, ev.Decode(&p))
}

func TestEventBus_UnencodablePayload(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON(EventCommentAdded, make(chan int))
	assert.Error(t, err)
}
