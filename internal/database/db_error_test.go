package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := zerolog.Nop()
	return &DB{DB: sqlDB, path: ":memory:", logger: &logger}, mock
}

func TestDB_ErrorPaths(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	t.Run("CreateUser_Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(boom)

		err := db.CreateUser(ctx, &models.User{Name: "a", Email: "a@b.c"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByID_Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email FROM users")).WillReturnError(boom)

		_, err := db.GetUserByID(ctx, 1)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteUser_NoRows", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, db.DeleteUser(ctx, 7), ErrNotFound)
	})

	t.Run("CreateBooking_BeginError", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(boom)

		err := db.CreateBookingWithLock(ctx, &models.Booking{Start: time.Now(), End: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CreateBooking_ItemUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := db.CreateBookingWithLock(ctx, &models.Booking{ItemID: 1, BookerID: 2, Start: time.Now(), End: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, ErrNotAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateBookingStatus_Stale", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
			WithArgs(models.StatusApproved, int64(5), int64(1), models.StatusWaiting).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := db.UpdateBookingStatusWithVersion(ctx, 5, 1, models.StatusApproved)
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})

	t.Run("ListBookings_QueryError", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).WillReturnError(boom)

		_, err := db.GetOwnerBookings(ctx, 1, models.BookingFilter{State: models.StateAll, Now: time.Now()})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CreateComment_Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO comments")).WillReturnError(boom)

		err := db.CreateComment(ctx, &models.Comment{Text: "x"}, time.Now())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("SearchItems_Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM items")).WillReturnError(boom)

		_, err := db.SearchItems(ctx, "drill", 10, 0)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CreateRequest_Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO requests")).WillReturnError(boom)

		err := db.CreateRequest(ctx, &models.ItemRequest{Description: "x", RequestorID: 1, Created: time.Now()})
		assert.ErrorIs(t, err, boom)
	})
}
