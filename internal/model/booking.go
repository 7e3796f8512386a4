package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// bookingTransitions is the stay path pending -> confirmed -> checked_in ->
// checked_out plus the side exit {pending, confirmed} -> cancelled.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut},
	BookingCheckedOut: {},
	BookingCancelled:  {},
}

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled,
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s.Valid() && len(bookingTransitions[s]) == 0
}

// Occupying reports whether a booking in this status holds its room.
func (s BookingStatus) Occupying() bool { return s != BookingCancelled }

// Outstanding reports whether the stay has not finished yet.  Outstanding
// bookings block deletion of their room and accommodation.
func (s BookingStatus) Outstanding() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// PaymentStatus is derived from the payment ledger, never set by callers.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPartial || s == PaymentCompleted
}

// DerivePaymentStatus maps the ledger sum against the booking total.
func DerivePaymentStatus(totalCents, paidCents int64) PaymentStatus {
	switch {
	case paidCents <= 0:
		return PaymentPending
	case paidCents >= totalCents:
		return PaymentCompleted
	default:
		return PaymentPartial
	}
}

// Booking reserves one room for one stay on behalf of an event attendee.
// It corresponds to a row in `accommodation_bookings` and is never
// physically deleted; cancellation is a status.
//
// Fields:
//  AccommodationID – parent of RoomID at creation time.
//  Nights          – charged nights, ceil of the stay length in days.
//  TotalPriceCents – nightly rate times Nights, fixed at creation.
//  AmountPaidCents – ledger sum, filled on reads.
//  PaymentStatus   – derived from the ledger by the reconciler.
type Booking struct {
	ID              uint64        `json:"id"`
	UserID          uint64        `json:"user_id"`
	EventID         uint64        `json:"event_id"`
	RoomID          uint64        `json:"room_id"`
	AccommodationID uint64        `json:"accommodation_id"`
	CheckInDate     time.Time     `json:"-"`
	CheckOutDate    time.Time     `json:"-"`
	Nights          int           `json:"nights"`
	TotalPriceCents int64         `json:"total_price_cents"`
	AmountPaidCents int64         `json:"amount_paid_cents"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   *string       `json:"payment_method,omitempty"`
	SpecialRequests *string       `json:"special_requests,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Stay returns the booking's date range.
func (b Booking) Stay() DateRange {
	return DateRange{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate}
}

// BookingFilter narrows booking listings.  Zero values are ignored.
type BookingFilter struct {
	UserID          uint64
	EventID         uint64
	AccommodationID uint64
	RoomID          uint64
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	CheckInFrom     *time.Time
	CheckInTo       *time.Time
	Limit           int
	Offset          int
}

// Matches applies the filter to a single booking (pagination excluded).
func (f BookingFilter) Matches(b Booking) bool {
	if f.UserID != 0 && b.UserID != f.UserID {
		return false
	}
	if f.EventID != 0 && b.EventID != f.EventID {
		return false
	}
	if f.AccommodationID != 0 && b.AccommodationID != f.AccommodationID {
		return false
	}
	if f.RoomID != 0 && b.RoomID != f.RoomID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.CheckInFrom != nil && b.CheckInDate.Before(*f.CheckInFrom) {
		return false
	}
	if f.CheckInTo != nil && b.CheckInDate.After(*f.CheckInTo) {
		return false
	}
	return true
}
