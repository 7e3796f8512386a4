package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// withPaid fills the derived ledger sum the way the MySQL subquery does.
func (st *state) withPaid(b model.Booking) model.Booking {
	var paid int64
	for _, p := range st.payments {
		if p.BookingID == b.ID {
			paid += p.AmountCents
		}
	}
	b.AmountPaidCents = paid
	return b
}

func (v *view) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	var out model.Booking
	err := v.read(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = st.withPaid(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *view) LockBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return v.GetBooking(ctx, id)
}

func (v *view) matching(f model.BookingFilter) ([]model.Booking, error) {
	out := []model.Booking{}
	err := v.read(func(st *state) error {
		for _, b := range st.bookings {
			if f.Matches(b) {
				out = append(out, st.withPaid(b))
			}
		}
		return nil
	})
	return out, err
}

func (v *view) ListBookings(_ context.Context, f model.BookingFilter) ([]model.Booking, error) {
	out, err := v.matching(f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []model.Booking{}, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, nil
}

func (v *view) CountBookings(_ context.Context, f model.BookingFilter) (int, error) {
	out, err := v.matching(f)
	return len(out), err
}

func (v *view) FindConflicts(_ context.Context, roomID uint64, stay model.DateRange) ([]model.Booking, error) {
	out := []model.Booking{}
	err := v.read(func(st *state) error {
		for _, b := range st.bookings {
			if b.RoomID == roomID && b.Status.Occupying() && b.Stay().Overlaps(stay) {
				out = append(out, st.withPaid(b))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInDate.Before(out[j].CheckInDate) })
	return out, err
}

func (v *view) ConflictingRoomIDs(_ context.Context, accommodationID uint64, stay model.DateRange) ([]uint64, error) {
	seen := map[uint64]struct{}{}
	ids := []uint64{}
	err := v.read(func(st *state) error {
		for _, b := range st.bookings {
			if b.AccommodationID != accommodationID || !b.Status.Occupying() || !b.Stay().Overlaps(stay) {
				continue
			}
			if _, dup := seen[b.RoomID]; !dup {
				seen[b.RoomID] = struct{}{}
				ids = append(ids, b.RoomID)
			}
		}
		return nil
	})
	return ids, err
}

func (v *view) countOutstanding(match func(model.Booking) bool) (int, error) {
	n := 0
	err := v.read(func(st *state) error {
		for _, b := range st.bookings {
			if b.Status.Outstanding() && match(b) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (v *view) CountOutstandingByAccommodation(_ context.Context, accommodationID uint64) (int, error) {
	return v.countOutstanding(func(b model.Booking) bool { return b.AccommodationID == accommodationID })
}

func (v *view) CountOutstandingByRoom(_ context.Context, roomID uint64) (int, error) {
	return v.countOutstanding(func(b model.Booking) bool { return b.RoomID == roomID })
}

func (v *view) CreateBooking(_ context.Context, b *model.Booking) error {
	return v.write(func(st *state) error {
		if _, ok := st.rooms[b.RoomID]; !ok {
			return repository.ErrNotFound
		}
		st.nextBooking++
		now := v.now()
		b.ID = st.nextBooking
		b.CreatedAt, b.UpdatedAt = now, now
		b.AmountPaidCents = 0
		st.bookings[b.ID] = *b
		return nil
	})
}

func (v *view) UpdateBookingStatus(_ context.Context, id uint64, status model.BookingStatus, cancelledAt *time.Time) error {
	return v.write(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return repository.ErrNotFound
		}
		b.Status = status
		if cancelledAt != nil {
			t := cancelledAt.UTC()
			b.CancelledAt = &t
		}
		b.UpdatedAt = v.now()
		st.bookings[id] = b
		return nil
	})
}

func (v *view) UpdatePaymentStatus(_ context.Context, id uint64, status model.PaymentStatus) error {
	return v.write(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return repository.ErrNotFound
		}
		b.PaymentStatus = status
		b.UpdatedAt = v.now()
		st.bookings[id] = b
		return nil
	})
}
