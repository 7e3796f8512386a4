package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// CreateBookingInput is the request to reserve a room for a stay.
type CreateBookingInput struct {
	EventID         uint64
	RoomID          uint64
	CheckIn         time.Time
	CheckOut        time.Time
	PaymentMethod   *string
	SpecialRequests *string
}

// BookingService runs the booking lifecycle:
//
//	pending -> confirmed -> checked_in -> checked_out
//	pending, confirmed -> cancelled
//
// checked_out and cancelled are terminal.
type BookingService struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewBookingService wires a BookingService.  events may be nil.
func NewBookingService(store repository.Store, events EventPublisher, log *zap.Logger) *BookingService {
	return &BookingService{store: store, events: events, log: log, now: time.Now}
}

// WithClock replaces the clock used for "today" and cancellation stamps.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// Create validates the request, then in one transaction locks the room,
// re-checks for overlapping bookings and inserts the booking as pending.
// Concurrent creates for the same room queue on the room lock, so at most
// one of two overlapping requests succeeds.
func (s *BookingService) Create(ctx context.Context, caller model.Caller, in CreateBookingInput) (*model.Booking, error) {
	if caller.UserID == 0 {
		return nil, forbiddenf("caller identity required")
	}
	if in.EventID == 0 {
		return nil, validationf("event_id is required")
	}
	if in.RoomID == 0 {
		return nil, validationf("room_id is required")
	}
	stay, err := stayOf(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}
	if stay.CheckIn.Before(model.TruncateDay(s.now())) {
		return nil, validationf("check_in_date must not be in the past")
	}

	ok, err := s.store.Events().EventExists(ctx, in.EventID)
	if err != nil {
		return nil, storeError(err, "check event", "event")
	}
	if !ok {
		return nil, notFoundf("event not found")
	}

	var created *model.Booking
	err = inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		rm, err := tx.Rooms().LockRoom(ctx, in.RoomID)
		if err != nil {
			return storeError(err, "lock room", "room")
		}
		if !rm.IsAvailable {
			return conflictf("room is out of service")
		}
		a, err := tx.Accommodations().GetAccommodation(ctx, rm.AccommodationID)
		if err != nil {
			return storeError(err, "get accommodation", "accommodation")
		}
		if !a.IsActive {
			return conflictf("accommodation is not accepting bookings")
		}
		busy, err := hasConflict(ctx, tx, rm.ID, stay)
		if err != nil {
			return err
		}
		if busy {
			return conflictf("room is already booked for the selected dates")
		}
		nights := stay.Nights()
		b := &model.Booking{
			UserID:          caller.UserID,
			EventID:         in.EventID,
			RoomID:          rm.ID,
			AccommodationID: rm.AccommodationID,
			CheckInDate:     stay.CheckIn,
			CheckOutDate:    stay.CheckOut,
			Nights:          nights,
			TotalPriceCents: rm.NightlyRate(*a) * int64(nights),
			Status:          model.BookingPending,
			PaymentStatus:   model.PaymentPending,
			PaymentMethod:   trimOptional(in.PaymentMethod),
			SpecialRequests: trimOptional(in.SpecialRequests),
		}
		if err := tx.Bookings().CreateBooking(ctx, b); err != nil {
			return storeError(err, "create booking", "room")
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking created",
		zap.Uint64("booking_id", created.ID),
		zap.Uint64("room_id", created.RoomID),
		zap.Uint64("user_id", created.UserID),
		zap.Int64("total_price_cents", created.TotalPriceCents))
	publish(ctx, s.events, s.log, model.NewDomainEvent(model.EventBookingCreated, *created, caller.UserID, s.now()))
	return created, nil
}

// Get returns a booking visible to the caller.
func (s *BookingService) Get(ctx context.Context, caller model.Caller, id uint64) (*model.Booking, error) {
	b, err := s.store.Bookings().GetBooking(ctx, id)
	if err != nil {
		return nil, storeError(err, "get booking", "booking")
	}
	if !caller.CanAccess(b.UserID) {
		return nil, forbiddenf("not allowed to access this booking")
	}
	return b, nil
}

// List returns a page of bookings and the total number of matches.
// Operators and organizers may filter freely; everyone else only ever
// sees their own bookings.
func (s *BookingService) List(ctx context.Context, caller model.Caller, f model.BookingFilter) ([]model.Booking, int, error) {
	if !caller.IsStaff() {
		f.UserID = caller.UserID
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, validationf("unknown booking status %q", f.Status)
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, 0, validationf("unknown payment status %q", f.PaymentStatus)
	}
	if f.CheckInFrom != nil && f.CheckInTo != nil && f.CheckInFrom.After(*f.CheckInTo) {
		return nil, 0, validationf("start_date must not be after end_date")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, 0, validationf("limit and offset must not be negative")
	}
	items, err := s.store.Bookings().ListBookings(ctx, f)
	if err != nil {
		return nil, 0, storeError(err, "list bookings", "booking")
	}
	total, err := s.store.Bookings().CountBookings(ctx, f)
	if err != nil {
		return nil, 0, storeError(err, "count bookings", "booking")
	}
	return items, total, nil
}

// ListMine returns every booking of the caller.
func (s *BookingService) ListMine(ctx context.Context, caller model.Caller) ([]model.Booking, error) {
	items, err := s.store.Bookings().ListBookings(ctx, model.BookingFilter{UserID: caller.UserID})
	if err != nil {
		return nil, storeError(err, "list bookings", "booking")
	}
	return items, nil
}

// UpdateStatus moves a booking along the lifecycle.  Only operators and
// organizers may call it, and only edges of the state machine are
// accepted; a same-state update is rejected.
func (s *BookingService) UpdateStatus(ctx context.Context, caller model.Caller, id uint64, status model.BookingStatus) (*model.Booking, error) {
	if !caller.IsStaff() {
		return nil, forbiddenf("operator or organizer role required")
	}
	if !status.Valid() {
		return nil, validationf("invalid status %q", status)
	}
	var prev model.BookingStatus
	updated, err := s.transition(ctx, id, func(b *model.Booking) error {
		prev = b.Status
		if b.Status == status {
			return policyf("booking is already %s", status)
		}
		if !b.Status.CanTransitionTo(status) {
			return policyf("cannot change booking status from %s to %s", b.Status, status)
		}
		return nil
	}, status)
	if err != nil {
		return nil, err
	}
	typ := model.EventBookingStatusChanged
	if status == model.BookingCancelled {
		typ = model.EventBookingCancelled
	}
	s.log.Info("booking status changed",
		zap.Uint64("booking_id", id),
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
		zap.Uint64("actor_id", caller.UserID))
	ev := model.NewDomainEvent(typ, *updated, caller.UserID, s.now())
	ev.PreviousStatus = prev
	publish(ctx, s.events, s.log, ev)
	return updated, nil
}

// Cancel cancels a booking on behalf of its owner or staff.  Stays that
// have started can no longer be cancelled, and cancellation is final.
// The payment status is left as it is.
func (s *BookingService) Cancel(ctx context.Context, caller model.Caller, id uint64) (*model.Booking, error) {
	var prev model.BookingStatus
	updated, err := s.transition(ctx, id, func(b *model.Booking) error {
		prev = b.Status
		if !caller.CanAccess(b.UserID) {
			return forbiddenf("not allowed to cancel this booking")
		}
		switch b.Status {
		case model.BookingCancelled:
			return policyf("booking is already cancelled")
		case model.BookingCheckedIn, model.BookingCheckedOut:
			return policyf("cannot cancel a booking that is %s", b.Status)
		}
		return nil
	}, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking cancelled", zap.Uint64("booking_id", id), zap.Uint64("actor_id", caller.UserID))
	ev := model.NewDomainEvent(model.EventBookingCancelled, *updated, caller.UserID, s.now())
	ev.PreviousStatus = prev
	publish(ctx, s.events, s.log, ev)
	return updated, nil
}

// transition locks the booking, runs check against the current row and
// writes the new status.  Cancelling stamps cancelled_at.
func (s *BookingService) transition(ctx context.Context, id uint64, check func(*model.Booking) error, to model.BookingStatus) (*model.Booking, error) {
	var out *model.Booking
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		b, err := tx.Bookings().LockBooking(ctx, id)
		if err != nil {
			return storeError(err, "lock booking", "booking")
		}
		if err := check(b); err != nil {
			return err
		}
		var cancelledAt *time.Time
		if to == model.BookingCancelled {
			now := s.now().UTC()
			cancelledAt = &now
		}
		if err := tx.Bookings().UpdateBookingStatus(ctx, id, to, cancelledAt); err != nil {
			return storeError(err, "update booking status", "booking")
		}
		out, err = tx.Bookings().GetBooking(ctx, id)
		return storeError(err, "get booking", "booking")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
