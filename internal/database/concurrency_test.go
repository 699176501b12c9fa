package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentApproval(t *testing.T) {
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "approval.db"), &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := seed(t, db)

	begin := time.Now().Add(time.Hour)
	booking := &models.Booking{ItemID: f.item.ID, BookerID: f.booker.ID, Start: begin, End: begin.Add(time.Hour)}
	require.NoError(t, db.CreateBookingWithLock(ctx, booking))

	const owners = 10
	var (
		wg        sync.WaitGroup
		won, lost atomic.Int32
	)
	for i := range owners {
		decision := models.StatusApproved
		if i%2 == 1 {
			decision = models.StatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// все читают одну и ту же версию
			err := db.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, decision)
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, ErrConcurrentModification):
				lost.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load(), "exactly one decision must land")
	assert.EqualValues(t, owners-1, lost.Load())

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.StatusWaiting, stored.Status)
	assert.Equal(t, booking.Version+1, stored.Version)
}

func TestConcurrentBookingOfWithdrawnItem(t *testing.T) {
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "withdraw.db"), &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := seed(t, db)

	start := time.Now().Add(time.Hour)
	off := false

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := db.UpdateItem(ctx, f.item.ID, f.owner.ID, models.ItemPatch{Available: &off})
		assert.NoError(t, err)
	}()

	var bookErr error
	booking := &models.Booking{ItemID: f.item.ID, BookerID: f.booker.ID, Start: start, End: start.Add(time.Hour)}
	go func() {
		defer wg.Done()
		bookErr = db.CreateBookingWithLock(ctx, booking)
	}()
	wg.Wait()

	// Либо бронь создана до снятия вещи, либо отклонена; третьего не дано
	if bookErr != nil {
		assert.ErrorIs(t, bookErr, ErrNotAvailable)
		return
	}
	assert.Equal(t, models.StatusWaiting, booking.Status)
}
