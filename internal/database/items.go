package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID); err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		item.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// UpdateItem applies patch to the owner's item in one statement.
// Absent patch fields keep their stored values.
func (db *DB) UpdateItem(ctx context.Context, id, ownerID int64, patch models.ItemPatch) (*models.Item, error) {
	query := `UPDATE items SET
	            name = COALESCE(?, name),
	            description = COALESCE(?, description),
	            available = COALESCE(?, available)
	          WHERE id = ? AND owner_id = ?
	          RETURNING ` + itemColumns
	item, err := scanItem(db.QueryRowContext(ctx, query,
		patch.Name, patch.Description, patch.Available, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}
	return item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, limit, offset)
}

func (db *DB) CountItemsByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// SearchItems finds available items whose name or description contains text, ignoring case.
func (db *DB) SearchItems(ctx context.Context, text string, limit, offset int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
	          WHERE available = 1
	            AND (instr(casefold(name), casefold(?)) > 0 OR instr(casefold(description), casefold(?)) > 0)
	          ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, text, text, limit, offset)
}

// GetItemsByRequests groups the items answering each of the given requests.
func (db *DB) GetItemsByRequests(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error) {
	result := make(map[int64][]models.Item, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(requestIDs)
	items, err := db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE request_id IN (`+marks+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result[*item.RequestID] = append(result[*item.RequestID], item)
	}
	return result, nil
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
