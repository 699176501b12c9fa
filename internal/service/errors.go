package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("booking is not waiting for approval")
	ErrInvalidTimeRange  = errors.New("invalid booking time range")
	ErrItemUnavailable   = errors.New("item is not available")
	ErrOwnerConflict     = errors.New("owner cannot book own item")
	ErrNoItemsOwned      = errors.New("user owns no items")
	ErrCommentNotAllowed = errors.New("comment requires a completed approved booking")
	ErrUnsupportedState  = models.ErrUnsupportedState
)

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return err
}

func requireUser(ctx context.Context, repo domain.UserRepository, userID int64) error {
	exists, err := repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
