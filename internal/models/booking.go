package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"itemId"`
	BookerID int64         `json:"bookerId"`
	Status   BookingStatus `json:"status"`
	Version  int64         `json:"-"`

	Item   *Item `json:"item,omitempty"`
	Booker *User `json:"booker,omitempty"`
}

// Моменты брони хранятся как int64 наносекунды Unix
var (
	MinBookingTime = time.Unix(0, math.MinInt64).UTC()
	MaxBookingTime = time.Unix(0, math.MaxInt64).UTC()
)

// StorableTime reports whether t fits the stored nanosecond representation.
func StorableTime(t time.Time) bool {
	return !t.Before(MinBookingTime) && !t.After(MaxBookingTime)
}

// BookingInput is the payload for creating a booking.
type BookingInput struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// BookingState filters booking listings by time window or status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StateFuture   BookingState = "FUTURE"
	StatePast     BookingState = "PAST"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ErrUnsupportedState matches every UnsupportedStateError.
var ErrUnsupportedState = errors.New("unsupported state")

// UnsupportedStateError reports a state filter that is not one of the known values.
type UnsupportedStateError struct {
	Value string
}

func (e *UnsupportedStateError) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.Value)
}

func (e *UnsupportedStateError) Unwrap() error {
	return ErrUnsupportedState
}

// ParseBookingState parses a state filter. An empty value means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return StateAll, nil
	}

	switch state := BookingState(value); state {
	case StateAll, StateCurrent, StateFuture, StatePast, StateWaiting, StateRejected:
		return state, nil
	default:
		return "", &UnsupportedStateError{Value: raw}
	}
}

// Status returns the booking status a state filters on, if it is a status filter.
func (s BookingState) Status() (BookingStatus, bool) {
	switch s {
	case StateWaiting:
		return StatusWaiting, true
	case StateRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// BookingFilter narrows a booking listing by state and row window.
type BookingFilter struct {
	State  BookingState
	Now    time.Time
	Limit  int
	Offset int
}
