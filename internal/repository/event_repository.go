package repository

import (
	"context"
	"database/sql"
	"errors"
)

// EventRepo checks references to the platform's events table.
type EventRepo struct {
	db Querier
}

// NewEventRepo returns an EventRepo bound to db.
func NewEventRepo(db Querier) *EventRepo { return &EventRepo{db: db} }

// EventExists reports whether an event row with the given id exists.
func (r *EventRepo) EventExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
