package status

import (
	"context"
	"database/sql"
	"errors"

	"github.com/libbyyosef/team-availability/internal/db"
)

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

// Upsert creates or replaces the single status row for a user and bumps
// its updated_at timestamp.
func (s *Store) Upsert(ctx context.Context, userID int64, st Status) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_statuses (user_id, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING user_id, status, updated_at
	`, userID, string(st)).Scan(&rec.UserID, &rec.Status, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get returns (nil, nil) when the user has no status row yet.
func (s *Store) Get(ctx context.Context, userID int64) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, status, updated_at
		FROM user_statuses
		WHERE user_id = $1
	`, userID).Scan(&rec.UserID, &rec.Status, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update changes an existing status row; (nil, nil) when no row exists.
func (s *Store) Update(ctx context.Context, userID int64, st Status) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		UPDATE user_statuses
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, status, updated_at
	`, userID, string(st)).Scan(&rec.UserID, &rec.Status, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByStatus returns every status row with this value.
func (s *Store) ListByStatus(ctx context.Context, st Status, limit, offset int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, status, updated_at
		FROM user_statuses
		WHERE status = $1
		ORDER BY user_id
		LIMIT $2 OFFSET $3
	`, string(st), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.UserID, &rec.Status, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
