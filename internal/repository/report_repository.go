package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/event-lodging/internal/model"
)

// ReportRepo loads the raw rows the reporting aggregator folds over.  It
// never writes.
type ReportRepo struct {
	db Querier
}

// NewReportRepo returns a ReportRepo bound to db.
func NewReportRepo(db Querier) *ReportRepo { return &ReportRepo{db: db} }

// BookingFacts returns every booking in scope joined with its room type
// and accommodation name.  Cancelled bookings are included; the
// aggregator decides which figures exclude them.
func (r *ReportRepo) BookingFacts(ctx context.Context, f model.ReportFilter) ([]model.BookingFact, error) {
	where := []string{}
	args := []any{}
	if f.Start != nil {
		where = append(where, "b.check_in_date >= ?")
		args = append(args, f.Start.Format(model.DateLayout))
	}
	if f.End != nil {
		where = append(where, "b.check_in_date <= ?")
		args = append(args, f.End.Format(model.DateLayout))
	}
	if f.EventID != 0 {
		where = append(where, "b.event_id = ?")
		args = append(args, f.EventID)
	}
	if f.AccommodationID != 0 {
		where = append(where, "b.accommodation_id = ?")
		args = append(args, f.AccommodationID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT b.id, b.user_id, b.event_id, b.room_id, b.accommodation_id,
	             b.check_in_date, b.check_out_date, b.nights, b.total_price_cents,
	             COALESCE((SELECT SUM(p.amount_cents) FROM accommodation_payments p WHERE p.booking_id = b.id), 0),
	             b.status, b.payment_status, b.payment_method, b.special_requests, b.cancelled_at,
	             b.created_at, b.updated_at, r.room_type, a.name
	      FROM accommodation_bookings b
	      JOIN accommodation_rooms r ON r.id = b.room_id
	      JOIN accommodations a ON a.id = b.accommodation_id
	      WHERE ` + cond + `
	      ORDER BY b.check_in_date, b.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingFact{}
	for rows.Next() {
		var fact model.BookingFact
		b, err := scanBooking(factScanner{rows: rows, extra: []any{&fact.RoomType, &fact.AccommodationName}})
		if err != nil {
			return nil, err
		}
		fact.Booking = *b
		out = append(out, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// factScanner appends the join columns to the booking scan targets.
type factScanner struct {
	rows  rowScanner
	extra []any
}

func (s factScanner) Scan(dest ...any) error {
	return s.rows.Scan(append(dest, s.extra...)...)
}

// RoomRefs lists every room with its accommodation, optionally scoped to
// one accommodation.  Accommodations without rooms are omitted.
func (r *ReportRepo) RoomRefs(ctx context.Context, accommodationID uint64) ([]model.RoomRef, error) {
	q := `SELECT r.id, a.id, a.name
	      FROM accommodation_rooms r
	      JOIN accommodations a ON a.id = r.accommodation_id`
	args := []any{}
	if accommodationID != 0 {
		q += ` WHERE a.id = ?`
		args = append(args, accommodationID)
	}
	q += ` ORDER BY a.id, r.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.RoomRef{}
	for rows.Next() {
		var ref model.RoomRef
		if err := rows.Scan(&ref.RoomID, &ref.AccommodationID, &ref.AccommodationName); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}
