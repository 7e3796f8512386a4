package model

import "time"

// Domain event types published after a committed change.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
	EventPaymentRecorded      = "payment.recorded"
)

// DomainEvent is the broker payload for booking and payment changes.  It
// carries enough context for audit and notification consumers without a
// database round trip.
type DomainEvent struct {
	Type            string        `json:"type"`
	BookingID       uint64        `json:"booking_id"`
	UserID          uint64        `json:"user_id"`
	EventID         uint64        `json:"event_id"`
	RoomID          uint64        `json:"room_id"`
	AccommodationID uint64        `json:"accommodation_id"`
	ActorID         uint64        `json:"actor_id"`
	Status          BookingStatus `json:"status"`
	PreviousStatus  BookingStatus `json:"previous_status,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CheckInDate     string        `json:"check_in_date"`
	CheckOutDate    string        `json:"check_out_date"`
	TotalPriceCents int64         `json:"total_price_cents"`
	AmountCents     int64         `json:"amount_cents,omitempty"`
	OccurredAt      time.Time     `json:"occurred_at"`
}

// NewDomainEvent snapshots a booking into an event of the given type.
func NewDomainEvent(typ string, b Booking, actorID uint64, at time.Time) DomainEvent {
	return DomainEvent{
		Type:            typ,
		BookingID:       b.ID,
		UserID:          b.UserID,
		EventID:         b.EventID,
		RoomID:          b.RoomID,
		AccommodationID: b.AccommodationID,
		ActorID:         actorID,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		CheckInDate:     b.CheckInDate.Format(DateLayout),
		CheckOutDate:    b.CheckOutDate.Format(DateLayout),
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      at.UTC(),
	}
}
