package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	req := models.ItemRequest{
		Description: description,
		RequestorID: userID,
		Created:     s.now(),
	}
	if err := s.repo.CreateRequest(ctx, &req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", req.ID).Int64("user_id", userID).Msg("item request created")
	return &models.ItemRequestView{ItemRequest: req, Items: []models.Item{}}, nil
}

// ListOwnRequests returns the user's requests, oldest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]models.ItemRequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOtherRequests pages through everyone else's requests, oldest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsExcept(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, "request", requestID)
	}

	views, err := s.withItems(ctx, []models.ItemRequest{*req})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RequestService) withItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequestView, error) {
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	byRequest, err := s.repo.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ItemRequestView, len(requests))
	for i, r := range requests {
		items := byRequest[r.ID]
		if items == nil {
			items = []models.Item{}
		}
		views[i] = models.ItemRequestView{ItemRequest: r, Items: items}
	}
	return views, nil
}
