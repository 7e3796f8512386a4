package model

import "time"

// Payment is one entry of a booking's append-only ledger, stored in
// `accommodation_payments`.  Rows are never updated or deleted.
type Payment struct {
	ID              uint64    `json:"id"`
	BookingID       uint64    `json:"booking_id"`
	AmountCents     int64     `json:"amount_cents"`
	PaymentDate     time.Time `json:"-"`
	PaymentMethod   string    `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number,omitempty"`
	ReceiptURL      *string   `json:"receipt_url,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	RecordedBy      uint64    `json:"recorded_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// SumPayments totals a ledger.
func SumPayments(ps []Payment) int64 {
	var total int64
	for _, p := range ps {
		total += p.AmountCents
	}
	return total
}
