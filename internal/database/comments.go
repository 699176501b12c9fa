package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

// CreateComment stores the comment only if the author has an approved booking
// of the item that ended before now. The check and the insert are one statement.
func (db *DB) CreateComment(ctx context.Context, comment *models.Comment, now time.Time) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_at)
	          SELECT ?, ?, ?, ?
	          WHERE EXISTS (
	              SELECT 1 FROM bookings
	              WHERE item_id = ? AND booker_id = ? AND status = ? AND end_at < ?
	          )`
	result, err := db.ExecContext(ctx, query,
		comment.Text,
		comment.ItemID,
		comment.AuthorID,
		toNanos(now),
		comment.ItemID,
		comment.AuthorID,
		models.StatusApproved,
		toNanos(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoCompletedBooking
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.Created = fromNanos(toNanos(now))
	return nil
}

// GetCommentsByItems groups comments per item, oldest first.
func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	result := make(map[int64][]models.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(itemIDs)
	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
	          FROM comments c JOIN users u ON u.id = c.author_id
	          WHERE c.item_id IN (` + marks + `)
	          ORDER BY c.created_at, c.id`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		var created int64
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Created = fromNanos(created)
		result[c.ItemID] = append(result[c.ItemID], c)
	}
	return result, rows.Err()
}
