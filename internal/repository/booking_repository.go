package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
)

// BookingRepo provides access to accommodation_bookings.  Bookings are
// never deleted; cancellation is a status update.  All dates are stored
// as DATE columns in UTC.
type BookingRepo struct {
	db Querier
}

// NewBookingRepo returns a BookingRepo bound to the given handle.
func NewBookingRepo(db Querier) *BookingRepo { return &BookingRepo{db: db} }

// amount_paid_cents is derived from the ledger on every read.
const bookingSelect = `SELECT b.id, b.user_id, b.event_id, b.room_id, b.accommodation_id,
       b.check_in_date, b.check_out_date, b.nights, b.total_price_cents,
       COALESCE((SELECT SUM(p.amount_cents) FROM accommodation_payments p WHERE p.booking_id = b.id), 0),
       b.status, b.payment_status, b.payment_method, b.special_requests, b.cancelled_at,
       b.created_at, b.updated_at
FROM accommodation_bookings b`

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	var status, payStatus string
	var method, requests sql.NullString
	var cancelledAt sql.NullTime
	if err := s.Scan(&b.ID, &b.UserID, &b.EventID, &b.RoomID, &b.AccommodationID,
		&b.CheckInDate, &b.CheckOutDate, &b.Nights, &b.TotalPriceCents, &b.AmountPaidCents,
		&status, &payStatus, &method, &requests, &cancelledAt,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	b.PaymentStatus = model.PaymentStatus(payStatus)
	b.CheckInDate = model.TruncateDay(b.CheckInDate)
	b.CheckOutDate = model.TruncateDay(b.CheckOutDate)
	if method.Valid {
		m := method.String
		b.PaymentMethod = &m
	}
	if requests.Valid {
		s := requests.String
		b.SpecialRequests = &s
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepo) getBooking(ctx context.Context, q string, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetBooking returns ErrNotFound when the booking does not exist.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.getBooking(ctx, bookingSelect+` WHERE b.id = ?`, id)
}

// LockBooking reads the booking with FOR UPDATE so status changes and
// payment reconciliation on one booking are serialised.
func (r *BookingRepo) LockBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.getBooking(ctx, bookingSelect+` WHERE b.id = ? FOR UPDATE`, id)
}

func bookingWhere(f model.BookingFilter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.UserID != 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.EventID != 0 {
		where = append(where, "b.event_id = ?")
		args = append(args, f.EventID)
	}
	if f.AccommodationID != 0 {
		where = append(where, "b.accommodation_id = ?")
		args = append(args, f.AccommodationID)
	}
	if f.RoomID != 0 {
		where = append(where, "b.room_id = ?")
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(f.Status))
	}
	if f.PaymentStatus != "" {
		where = append(where, "b.payment_status = ?")
		args = append(args, string(f.PaymentStatus))
	}
	if f.CheckInFrom != nil {
		where = append(where, "b.check_in_date >= ?")
		args = append(args, f.CheckInFrom.Format(model.DateLayout))
	}
	if f.CheckInTo != nil {
		where = append(where, "b.check_in_date <= ?")
		args = append(args, f.CheckInTo.Format(model.DateLayout))
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// ListBookings returns bookings matching f, newest first.  A zero Limit
// returns every match.
func (r *BookingRepo) ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	cond, args := bookingWhere(f)
	q := bookingSelect + ` WHERE ` + cond + ` ORDER BY b.created_at DESC, b.id DESC`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	return r.queryBookings(ctx, q, args...)
}

// CountBookings counts bookings matching f, ignoring pagination.
func (r *BookingRepo) CountBookings(ctx context.Context, f model.BookingFilter) (int, error) {
	cond, args := bookingWhere(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accommodation_bookings b WHERE `+cond, args...).Scan(&n)
	return n, err
}

// FindConflicts returns the non-cancelled bookings of roomID whose stay
// overlaps [stay.CheckIn, stay.CheckOut).  Two ranges overlap when each
// starts before the other ends, so a stay ending on the day another
// begins is not a conflict.
func (r *BookingRepo) FindConflicts(ctx context.Context, roomID uint64, stay model.DateRange) ([]model.Booking, error) {
	q := bookingSelect + `
WHERE b.room_id = ? AND b.status <> 'cancelled'
  AND b.check_in_date < ? AND ? < b.check_out_date
ORDER BY b.check_in_date`
	return r.queryBookings(ctx, q, roomID, stay.CheckOut.Format(model.DateLayout), stay.CheckIn.Format(model.DateLayout))
}

// ConflictingRoomIDs lists the rooms of an accommodation that have at
// least one non-cancelled booking overlapping stay.
func (r *BookingRepo) ConflictingRoomIDs(ctx context.Context, accommodationID uint64, stay model.DateRange) ([]uint64, error) {
	const q = `SELECT DISTINCT b.room_id
	           FROM accommodation_bookings b
	           WHERE b.accommodation_id = ? AND b.status <> 'cancelled'
	             AND b.check_in_date < ? AND ? < b.check_out_date`
	rows, err := r.db.QueryContext(ctx, q, accommodationID, stay.CheckOut.Format(model.DateLayout), stay.CheckIn.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const outstandingStatuses = `('pending','confirmed','checked_in')`

// CountOutstandingByAccommodation counts bookings whose stay has not ended.
func (r *BookingRepo) CountOutstandingByAccommodation(ctx context.Context, accommodationID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accommodation_bookings WHERE accommodation_id = ? AND status IN `+outstandingStatuses,
		accommodationID).Scan(&n)
	return n, err
}

// CountOutstandingByRoom counts bookings of one room whose stay has not ended.
func (r *BookingRepo) CountOutstandingByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accommodation_bookings WHERE room_id = ? AND status IN `+outstandingStatuses,
		roomID).Scan(&n)
	return n, err
}

// CreateBooking inserts b and reads it back.  Callers are expected to
// hold the room lock and to have checked FindConflicts in the same
// transaction.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO accommodation_bookings
	             (user_id, event_id, room_id, accommodation_id, check_in_date, check_out_date, nights,
	              total_price_cents, status, payment_status, payment_method, special_requests)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.UserID, b.EventID, b.RoomID, b.AccommodationID,
		b.CheckInDate.Format(model.DateLayout), b.CheckOutDate.Format(model.DateLayout), b.Nights,
		b.TotalPriceCents, string(b.Status), string(b.PaymentStatus), b.PaymentMethod, b.SpecialRequests)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetBooking(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// UpdateBookingStatus sets the lifecycle status.  cancelledAt is written
// only when non-nil.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus, cancelledAt *time.Time) error {
	const q = `UPDATE accommodation_bookings
	           SET status = ?, cancelled_at = COALESCE(?, cancelled_at), updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	var ts sql.NullTime
	if cancelledAt != nil {
		ts = sql.NullTime{Time: cancelledAt.UTC(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, string(status), ts, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePaymentStatus writes the derived payment status.
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	const q = `UPDATE accommodation_bookings SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, string(status), id); err != nil {
		return err
	}
	return nil
}
