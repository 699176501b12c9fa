package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, id, ownerID int64, patch models.ItemPatch) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	SearchItems(ctx context.Context, text string, limit, offset int) ([]models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error)
}

type BookingRepository interface {
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.BookingStatus) error
	GetBookerBookings(ctx context.Context, bookerID int64, f models.BookingFilter) ([]models.Booking, error)
	GetOwnerBookings(ctx context.Context, ownerID int64, f models.BookingFilter) ([]models.Booking, error)
	GetBookingNeighbours(ctx context.Context, itemIDs []int64, now time.Time) (last, next map[int64]*models.BookingInfo, err error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment, now time.Time) error
	GetCommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetRequestsExcept(ctx context.Context, userID int64, limit, offset int) ([]models.ItemRequest, error)
}

// Repository is the whole persistence surface; *database.DB implements it.
type Repository interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
}

type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}
