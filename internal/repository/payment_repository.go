package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-lodging/internal/model"
)

// PaymentRepo is the append-only ledger over accommodation_payments.
type PaymentRepo struct {
	db Querier
}

// NewPaymentRepo returns a PaymentRepo bound to db.
func NewPaymentRepo(db Querier) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, booking_id, amount_cents, payment_date, payment_method, reference_number, receipt_url, notes, recorded_by, created_at`

func scanPayment(s rowScanner) (*model.Payment, error) {
	var p model.Payment
	var ref, receipt, notes sql.NullString
	if err := s.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentDate, &p.PaymentMethod,
		&ref, &receipt, &notes, &p.RecordedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.PaymentDate = model.TruncateDay(p.PaymentDate)
	p.ReferenceNumber = nullString(ref)
	p.ReceiptURL = nullString(receipt)
	p.Notes = nullString(notes)
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// AppendPayment inserts p and fills its id and created_at.  A missing
// booking surfaces as ErrNotFound through the foreign key.
func (r *PaymentRepo) AppendPayment(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO accommodation_payments
	             (booking_id, amount_cents, payment_date, payment_method, reference_number, receipt_url, notes, recorded_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.PaymentDate.Format(model.DateLayout),
		p.PaymentMethod, p.ReferenceNumber, p.ReceiptURL, p.Notes, p.RecordedBy)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM accommodation_payments WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// ListPayments returns a booking's ledger ordered by payment date then id.
func (r *PaymentRepo) ListPayments(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM accommodation_payments WHERE booking_id = ? ORDER BY payment_date, id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SumPayments totals the ledger of one booking.
func (r *PaymentRepo) SumPayments(ctx context.Context, bookingID uint64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM accommodation_payments WHERE booking_id = ?`, bookingID).Scan(&total)
	return total, err
}
