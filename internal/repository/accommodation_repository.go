package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-lodging/internal/model"
)

// AccommodationRepo provides CRUD operations for the accommodations table.
type AccommodationRepo struct {
	db Querier
}

// NewAccommodationRepo returns an AccommodationRepo bound to db.
func NewAccommodationRepo(db Querier) *AccommodationRepo { return &AccommodationRepo{db: db} }

const accommodationColumns = `id, name, location, description, price_per_night_cents, total_rooms, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccommodation(s rowScanner) (*model.Accommodation, error) {
	var a model.Accommodation
	var desc sql.NullString
	if err := s.Scan(&a.ID, &a.Name, &a.Location, &desc, &a.PricePerNightCents, &a.TotalRooms,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		a.Description = &d
	}
	return &a, nil
}

// GetAccommodation returns ErrNotFound when no row matches.
func (r *AccommodationRepo) GetAccommodation(ctx context.Context, id uint64) (*model.Accommodation, error) {
	const q = `SELECT ` + accommodationColumns + ` FROM accommodations WHERE id = ?`
	a, err := scanAccommodation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAccommodations returns accommodations matching f ordered by name.
// The location filter is a case-insensitive substring match.
func (r *AccommodationRepo) ListAccommodations(ctx context.Context, f model.AccommodationFilter) ([]model.Accommodation, error) {
	where := []string{}
	args := []any{}
	if f.ActiveOnly {
		where = append(where, "is_active = 1")
	}
	if f.MinPriceCents != nil {
		where = append(where, "price_per_night_cents >= ?")
		args = append(args, *f.MinPriceCents)
	}
	if f.MaxPriceCents != nil {
		where = append(where, "price_per_night_cents <= ?")
		args = append(args, *f.MaxPriceCents)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT ` + accommodationColumns + ` FROM accommodations WHERE ` + cond + ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAccommodation inserts a and reads the row back so defaults and
// timestamps are populated.
func (r *AccommodationRepo) CreateAccommodation(ctx context.Context, a *model.Accommodation) error {
	const q = `INSERT INTO accommodations (name, location, description, price_per_night_cents, total_rooms, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Location, a.Description, a.PricePerNightCents, a.TotalRooms, a.IsActive)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetAccommodation(ctx, uint64(id))
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

// UpdateAccommodation overwrites every mutable column of a.
func (r *AccommodationRepo) UpdateAccommodation(ctx context.Context, a *model.Accommodation) error {
	const q = `UPDATE accommodations
	           SET name = ?, location = ?, description = ?, price_per_night_cents = ?, total_rooms = ?, is_active = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Location, a.Description, a.PricePerNightCents, a.TotalRooms, a.IsActive, a.ID)
	if err != nil {
		return translate(err)
	}
	// MySQL reports zero affected rows for an unchanged row, so existence
	// is confirmed by reading it back.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetAccommodation(ctx, a.ID); err != nil {
			return err
		}
	}
	updated, err := r.GetAccommodation(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *updated
	return nil
}

// DeleteAccommodation hard-deletes the row; rooms cascade.  Returns
// ErrConflict when bookings still reference its rooms.
func (r *AccommodationRepo) DeleteAccommodation(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accommodations WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
