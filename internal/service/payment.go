package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// PaymentInput is one payment received for a booking.
type PaymentInput struct {
	AmountCents     int64
	PaymentDate     time.Time
	PaymentMethod   string
	ReferenceNumber *string
	ReceiptURL      *string
	Notes           *string
}

// PaymentService appends to the payment ledger and reconciles the
// booking's payment status against the ledger sum.
type PaymentService struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewPaymentService wires a PaymentService.  events may be nil.
func NewPaymentService(store repository.Store, events EventPublisher, log *zap.Logger) *PaymentService {
	return &PaymentService{store: store, events: events, log: log, now: time.Now}
}

// WithClock replaces the clock used for event timestamps.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

func validatePayment(in *PaymentInput) error {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	switch {
	case in.AmountCents <= 0:
		return validationf("amount_cents must be positive")
	case in.PaymentDate.IsZero():
		return validationf("payment_date is required")
	case in.PaymentMethod == "":
		return validationf("payment_method is required")
	}
	return nil
}

// AddPayment records a payment and returns it with the reconciled
// booking.  The booking row stays locked while the payment is appended,
// the ledger is summed and the derived status is written, so concurrent
// payments on one booking reconcile in sequence and the final status
// does not depend on their order.
func (s *PaymentService) AddPayment(ctx context.Context, caller model.Caller, bookingID uint64, in PaymentInput) (*model.Payment, *model.Booking, error) {
	if err := validatePayment(&in); err != nil {
		return nil, nil, err
	}
	var (
		payment *model.Payment
		booking *model.Booking
	)
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		b, err := tx.Bookings().LockBooking(ctx, bookingID)
		if err != nil {
			return storeError(err, "lock booking", "booking")
		}
		if !caller.CanAccess(b.UserID) {
			return forbiddenf("not allowed to record payments for this booking")
		}
		if b.Status == model.BookingCancelled {
			return policyf("cannot record a payment for a cancelled booking")
		}
		p := &model.Payment{
			BookingID:       bookingID,
			AmountCents:     in.AmountCents,
			PaymentDate:     model.TruncateDay(in.PaymentDate),
			PaymentMethod:   in.PaymentMethod,
			ReferenceNumber: trimOptional(in.ReferenceNumber),
			ReceiptURL:      trimOptional(in.ReceiptURL),
			Notes:           trimOptional(in.Notes),
			RecordedBy:      caller.UserID,
		}
		if err := tx.Payments().AppendPayment(ctx, p); err != nil {
			return storeError(err, "append payment", "booking")
		}
		paid, err := tx.Payments().SumPayments(ctx, bookingID)
		if err != nil {
			return storeError(err, "sum payments", "booking")
		}
		status := model.DerivePaymentStatus(b.TotalPriceCents, paid)
		if status != b.PaymentStatus {
			if err := tx.Bookings().UpdatePaymentStatus(ctx, bookingID, status); err != nil {
				return storeError(err, "update payment status", "booking")
			}
		}
		booking, err = tx.Bookings().GetBooking(ctx, bookingID)
		if err != nil {
			return storeError(err, "get booking", "booking")
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("payment recorded",
		zap.Uint64("booking_id", bookingID),
		zap.Uint64("payment_id", payment.ID),
		zap.Int64("amount_cents", payment.AmountCents),
		zap.String("payment_status", string(booking.PaymentStatus)))
	ev := model.NewDomainEvent(model.EventPaymentRecorded, *booking, caller.UserID, s.now())
	ev.AmountCents = payment.AmountCents
	publish(ctx, s.events, s.log, ev)
	return payment, booking, nil
}

// ListPayments returns the ledger of a booking the caller may access.
func (s *PaymentService) ListPayments(ctx context.Context, caller model.Caller, bookingID uint64) ([]model.Payment, error) {
	b, err := s.store.Bookings().GetBooking(ctx, bookingID)
	if err != nil {
		return nil, storeError(err, "get booking", "booking")
	}
	if !caller.CanAccess(b.UserID) {
		return nil, forbiddenf("not allowed to access this booking")
	}
	ps, err := s.store.Payments().ListPayments(ctx, bookingID)
	if err != nil {
		return nil, storeError(err, "list payments", "payment")
	}
	return ps, nil
}
