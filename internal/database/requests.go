package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

const requestColumns = `id, description, requestor_id, created_at`

func scanRequest(row rowScanner) (*models.ItemRequest, error) {
	var r models.ItemRequest
	var created int64
	if err := row.Scan(&r.ID, &r.Description, &r.RequestorID, &created); err != nil {
		return nil, err
	}
	r.Created = fromNanos(created)
	return &r, nil
}

func (db *DB) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO requests (description, requestor_id, created_at) VALUES (?, ?, ?)`,
		req.Description, req.RequestorID, toNanos(req.Created))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	req.Created = fromNanos(toNanos(req.Created))
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	r, err := scanRequest(db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}
	return r, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id = ? ORDER BY created_at, id`
	return db.queryRequests(ctx, query, requestorID)
}

// GetRequestsExcept lists everyone else's requests, oldest first.
func (db *DB) GetRequestsExcept(ctx context.Context, userID int64, limit, offset int) ([]models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id <> ?
	          ORDER BY created_at, id LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, limit, offset)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ItemRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}
