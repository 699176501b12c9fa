package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, in models.ItemInput) (*models.Item, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	if in.RequestID != nil {
		if _, err := s.repo.GetRequestByID(ctx, *in.RequestID); err != nil {
			return nil, notFound(err, "request", *in.RequestID)
		}
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// UpdateItem applies patch to an item of actorID.
func (s *ItemService) UpdateItem(ctx context.Context, actorID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "item", itemID)
	}
	if item.OwnerID != actorID {
		return nil, fmt.Errorf("item %d is owned by another user: %w", itemID, ErrForbidden)
	}

	updated, err := s.repo.UpdateItem(ctx, itemID, actorID, patch)
	if err != nil {
		return nil, notFound(err, "item", itemID)
	}
	return updated, nil
}

// GetItem returns the item with its comments. Booking neighbours are shown to the owner only.
func (s *ItemService) GetItem(ctx context.Context, actorID, itemID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "item", itemID)
	}

	views, err := s.enrich(ctx, actorID, []models.Item{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, ownerID, items)
}

// SearchItems matches available items by name or description. Blank text finds nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text, page.Limit(), page.Offset())
}

func (s *ItemService) AddComment(ctx context.Context, actorID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.repo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, notFound(err, "user", actorID)
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, notFound(err, "item", itemID)
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: actorID,
	}
	if err := s.repo.CreateComment(ctx, comment, s.now()); err != nil {
		if errors.Is(err, database.ErrNoCompletedBooking) {
			return nil, fmt.Errorf("user %d, item %d: %w", actorID, itemID, ErrCommentNotAllowed)
		}
		return nil, err
	}
	comment.AuthorName = author.Name

	publishEvent(s.eventBus, s.logger, events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  actorID,
	})
	return comment, nil
}

func (s *ItemService) enrich(ctx context.Context, actorID int64, items []models.Item) ([]models.ItemView, error) {
	ids := make([]int64, 0, len(items))
	var owned []int64
	for _, item := range items {
		ids = append(ids, item.ID)
		if item.OwnerID == actorID {
			owned = append(owned, item.ID)
		}
	}

	comments, err := s.repo.GetCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	last, next, err := s.repo.GetBookingNeighbours(ctx, owned, s.now())
	if err != nil {
		return nil, err
	}

	views := make([]models.ItemView, len(items))
	for i, item := range items {
		itemComments := comments[item.ID]
		if itemComments == nil {
			itemComments = []models.Comment{}
		}
		views[i] = models.ItemView{
			Item:        item,
			LastBooking: last[item.ID],
			NextBooking: next[item.ID],
			Comments:    itemComments,
		}
	}
	return views, nil
}
