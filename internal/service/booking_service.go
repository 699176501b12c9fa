package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, requesterID int64, in models.BookingInput) (*models.Booking, error) {
	if !models.StorableTime(in.Start) || !models.StorableTime(in.End) {
		return nil, fmt.Errorf("%w: outside %s..%s", ErrInvalidTimeRange,
			models.MinBookingTime.Format(time.RFC3339), models.MaxBookingTime.Format(time.RFC3339))
	}
	if !in.Start.Before(in.End) {
		return nil, ErrInvalidTimeRange
	}

	if err := requireUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, in.ItemID)
	if err != nil {
		return nil, notFound(err, "item", in.ItemID)
	}
	// Владелец не может бронировать свою вещь
	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("item %d: %w", item.ID, ErrOwnerConflict)
	}
	if !item.Available {
		return nil, fmt.Errorf("item %d: %w", item.ID, ErrItemUnavailable)
	}

	booking := &models.Booking{
		Start:    in.Start,
		End:      in.End,
		ItemID:   in.ItemID,
		BookerID: requesterID,
	}

	// Доступность перепроверяется внутри транзакции
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		switch {
		case errors.Is(err, database.ErrNotAvailable):
			return nil, fmt.Errorf("item %d: %w", item.ID, ErrItemUnavailable)
		case errors.Is(err, database.ErrTimeOutOfRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
		}
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", booking.ItemID).Int64("booker_id", requesterID).Msg("booking created")
	s.publish(events.EventBookingCreated, booking, requesterID)
	return booking, nil
}

// ApproveBooking moves a WAITING booking to APPROVED or REJECTED. Only the item owner may decide, once.
func (s *BookingService) ApproveBooking(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, ErrInvalidState)
	}
	if booking.Item.OwnerID != actorID {
		return nil, fmt.Errorf("booking %d: only the item owner may decide: %w", bookingID, ErrForbidden)
	}

	status, eventType := models.StatusRejected, events.EventBookingRejected
	if approve {
		status, eventType = models.StatusApproved, events.EventBookingApproved
	}

	err = s.repo.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, status)
	if err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			return nil, fmt.Errorf("booking %d was decided concurrently: %w", bookingID, ErrInvalidState)
		}
		return nil, err
	}
	booking.Status = status
	booking.Version++

	s.logger.Info().Int64("booking_id", booking.ID).Str("status", string(status)).Int64("owner_id", actorID).Msg("booking decided")
	s.publish(eventType, booking, actorID)
	return booking, nil
}

// GetBooking returns the booking to its booker or the item owner.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if booking.BookerID != actorID && booking.Item.OwnerID != actorID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) ListBookerBookings(ctx context.Context, actorID int64, state models.BookingState, page models.Page) ([]models.Booking, error) {
	if err := checkState(state); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, actorID); err != nil {
		return nil, err
	}

	return s.repo.GetBookerBookings(ctx, actorID, s.filter(state, page.Limit(), page.Offset()))
}

func (s *BookingService) ListOwnerBookings(ctx context.Context, actorID int64, state models.BookingState, page models.Page) ([]models.Booking, error) {
	if err := s.checkOwner(ctx, actorID, state); err != nil {
		return nil, err
	}

	return s.repo.GetOwnerBookings(ctx, actorID, s.filter(state, page.Limit(), page.Offset()))
}

// ExportOwnerBookings returns up to models.ExportLimit of the owner's bookings for a spreadsheet.
func (s *BookingService) ExportOwnerBookings(ctx context.Context, actorID int64, state models.BookingState) ([]models.Booking, error) {
	if err := s.checkOwner(ctx, actorID, state); err != nil {
		return nil, err
	}

	return s.repo.GetOwnerBookings(ctx, actorID, s.filter(state, models.ExportLimit, 0))
}

func (s *BookingService) checkOwner(ctx context.Context, actorID int64, state models.BookingState) error {
	if err := checkState(state); err != nil {
		return err
	}
	if err := requireUser(ctx, s.repo, actorID); err != nil {
		return err
	}

	count, err := s.repo.CountItemsByOwner(ctx, actorID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("user %d: %w", actorID, ErrNoItemsOwned)
	}
	return nil
}

func (s *BookingService) filter(state models.BookingState, limit, offset int) models.BookingFilter {
	return models.BookingFilter{
		State:  state,
		Now:    s.now(),
		Limit:  limit,
		Offset: offset,
	}
}

func checkState(state models.BookingState) error {
	_, err := models.ParseBookingState(string(state))
	return err
}

func (s *BookingService) publish(eventType string, booking *models.Booking, changedBy int64) {
	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		BookerID:    booking.BookerID,
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedBy,
	}
	if booking.Item != nil {
		payload.OwnerID = booking.Item.OwnerID
	}
	publishEvent(s.eventBus, s.logger, eventType, payload)
}
