package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const bookingSelect = `SELECT b.id, b.start_at, b.end_at, b.item_id, b.booker_id, b.status, b.version,
	       i.id, i.name, i.description, i.available, i.owner_id, i.request_id,
	       u.id, u.name, u.email
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b          models.Booking
		item       models.Item
		booker     models.User
		start, end int64
		requestID  sql.NullInt64
	)
	err := row.Scan(
		&b.ID, &start, &end, &b.ItemID, &b.BookerID, &b.Status, &b.Version,
		&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID,
		&booker.ID, &booker.Name, &booker.Email,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	b.Start = fromNanos(start)
	b.End = fromNanos(end)
	b.Item = &item
	b.Booker = &booker
	return &b, nil
}

func getBooking(ctx context.Context, q queryRower, id int64) (*models.Booking, error) {
	b, err := scanBooking(q.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return b, nil
}

// CreateBookingWithLock inserts a WAITING booking only while the item is still available.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	if !models.StorableTime(booking.Start) || !models.StorableTime(booking.End) {
		return ErrTimeOutOfRange
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, version)
	          SELECT ?, ?, ?, ?, ?, 1
	          WHERE EXISTS (SELECT 1 FROM items WHERE id = ? AND available = 1)`
	result, err := tx.ExecContext(ctx, query,
		toNanos(booking.Start),
		toNanos(booking.End),
		booking.ItemID,
		booking.BookerID,
		models.StatusWaiting,
		booking.ItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected in tx: %w", err)
	}
	if rows == 0 {
		return ErrNotAvailable
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}

	created, err := getBooking(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	*booking = *created
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return getBooking(ctx, db, id)
}

// UpdateBookingStatusWithVersion moves a WAITING booking to status if nobody changed it since fromVersion.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, version = version + 1
	          WHERE id = ? AND version = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, id, fromVersion, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) GetBookerBookings(ctx context.Context, bookerID int64, f models.BookingFilter) ([]models.Booking, error) {
	return db.listBookings(ctx, `b.booker_id = ?`, bookerID, f)
}

func (db *DB) GetOwnerBookings(ctx context.Context, ownerID int64, f models.BookingFilter) ([]models.Booking, error) {
	return db.listBookings(ctx, `i.owner_id = ?`, ownerID, f)
}

func (db *DB) listBookings(ctx context.Context, who string, userID int64, f models.BookingFilter) ([]models.Booking, error) {
	query := bookingSelect + ` WHERE ` + who
	args := []any{userID}

	cond, condArgs := stateCondition(f.State, f.Now)
	if cond != "" {
		query += ` AND ` + cond
		args = append(args, condArgs...)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY b.start_at DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func stateCondition(state models.BookingState, now time.Time) (string, []any) {
	ts := toNanos(now)
	switch state {
	case models.StateCurrent:
		return `b.start_at <= ? AND b.end_at > ?`, []any{ts, ts}
	case models.StateFuture:
		return `b.start_at > ?`, []any{ts}
	case models.StatePast:
		return `b.end_at < ?`, []any{ts}
	}
	if status, ok := state.Status(); ok {
		return `b.status = ?`, []any{status}
	}
	return "", nil
}

// GetBookingNeighbours returns, per item, the last approved booking that has started
// and the next approved booking that has not.
func (db *DB) GetBookingNeighbours(ctx context.Context, itemIDs []int64, now time.Time) (last, next map[int64]*models.BookingInfo, err error) {
	last = make(map[int64]*models.BookingInfo)
	next = make(map[int64]*models.BookingInfo)
	if len(itemIDs) == 0 {
		return last, next, nil
	}

	marks, args := placeholders(itemIDs)
	query := `SELECT id, item_id, booker_id, start_at, end_at FROM bookings
	          WHERE status = ? AND item_id IN (` + marks + `)`
	rows, err := db.QueryContext(ctx, query, append([]any{models.StatusApproved}, args...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query booking neighbours: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			info       models.BookingInfo
			itemID     int64
			start, end int64
		)
		if err := rows.Scan(&info.ID, &itemID, &info.BookerID, &start, &end); err != nil {
			return nil, nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		info.Start = fromNanos(start)
		info.End = fromNanos(end)

		switch {
		case info.Start.Before(now):
			if cur := last[itemID]; cur == nil || info.End.After(cur.End) {
				last[itemID] = &info
			}
		case info.Start.After(now):
			if cur := next[itemID]; cur == nil || info.Start.Before(cur.Start) {
				next[itemID] = &info
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return last, next, nil
}
