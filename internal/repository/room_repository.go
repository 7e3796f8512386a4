package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-lodging/internal/model"
)

// RoomRepo provides methods to work with accommodation_rooms.
type RoomRepo struct {
	db Querier
}

// NewRoomRepo constructs a RoomRepo with the given handle.
func NewRoomRepo(db Querier) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, accommodation_id, room_number, room_type, capacity, is_available, price_per_night_cents, created_at, updated_at`

func scanRoom(s rowScanner) (*model.Room, error) {
	var rm model.Room
	var price sql.NullInt64
	if err := s.Scan(&rm.ID, &rm.AccommodationID, &rm.RoomNumber, &rm.RoomType, &rm.Capacity,
		&rm.IsAvailable, &price, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Int64
		rm.PricePerNightCents = &p
	}
	return &rm, nil
}

func (r *RoomRepo) getRoom(ctx context.Context, q string, id uint64) (*model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rm, nil
}

// GetRoom returns ErrNotFound when the room does not exist.
func (r *RoomRepo) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return r.getRoom(ctx, `SELECT `+roomColumns+` FROM accommodation_rooms WHERE id = ?`, id)
}

// LockRoom reads the room with SELECT ... FOR UPDATE.  Only meaningful
// inside a transaction: a second booking transaction on the same room
// blocks here until the first commits, then sees its insert.
func (r *RoomRepo) LockRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return r.getRoom(ctx, `SELECT `+roomColumns+` FROM accommodation_rooms WHERE id = ? FOR UPDATE`, id)
}

// ListRooms returns the rooms of an accommodation ordered by room number.
func (r *RoomRepo) ListRooms(ctx context.Context, accommodationID uint64) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM accommodation_rooms WHERE accommodation_id = ? ORDER BY room_number, id`
	rows, err := r.db.QueryContext(ctx, q, accommodationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRoom inserts rm.  A room number already used in the same
// accommodation yields ErrDuplicate.
func (r *RoomRepo) CreateRoom(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO accommodation_rooms (accommodation_id, room_number, room_type, capacity, is_available, price_per_night_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.AccommodationID, rm.RoomNumber, rm.RoomType, rm.Capacity, rm.IsAvailable, rm.PricePerNightCents)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetRoom(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rm = *created
	return nil
}

// UpdateRoom overwrites the mutable columns of rm.
func (r *RoomRepo) UpdateRoom(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE accommodation_rooms
	           SET room_number = ?, room_type = ?, capacity = ?, is_available = ?, price_per_night_cents = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND accommodation_id = ?`
	if _, err := r.db.ExecContext(ctx, q, rm.RoomNumber, rm.RoomType, rm.Capacity, rm.IsAvailable, rm.PricePerNightCents,
		rm.ID, rm.AccommodationID); err != nil {
		return translate(err)
	}
	updated, err := r.GetRoom(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = *updated
	return nil
}

// DeleteRoom removes the room if it exists.  It reports false, nil when
// nothing was deleted and ErrConflict when bookings reference the room.
func (r *RoomRepo) DeleteRoom(ctx context.Context, accommodationID, roomID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accommodation_rooms WHERE id = ? AND accommodation_id = ?`, roomID, accommodationID)
	if err != nil {
		return false, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
