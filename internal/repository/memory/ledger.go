package memory

import (
	"context"
	"sort"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

func (v *view) AppendPayment(_ context.Context, p *model.Payment) error {
	return v.write(func(st *state) error {
		if _, ok := st.bookings[p.BookingID]; !ok {
			return repository.ErrNotFound
		}
		st.nextPayment++
		p.ID = st.nextPayment
		p.CreatedAt = v.now()
		p.PaymentDate = model.TruncateDay(p.PaymentDate)
		st.payments = append(st.payments, *p)
		return nil
	})
}

func (v *view) ListPayments(_ context.Context, bookingID uint64) ([]model.Payment, error) {
	out := []model.Payment{}
	err := v.read(func(st *state) error {
		for _, p := range st.payments {
			if p.BookingID == bookingID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.Before(out[j].PaymentDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (v *view) SumPayments(ctx context.Context, bookingID uint64) (int64, error) {
	ps, err := v.ListPayments(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return model.SumPayments(ps), nil
}

func (v *view) BookingFacts(_ context.Context, f model.ReportFilter) ([]model.BookingFact, error) {
	out := []model.BookingFact{}
	err := v.read(func(st *state) error {
		for _, b := range st.bookings {
			if f.Start != nil && b.CheckInDate.Before(*f.Start) {
				continue
			}
			if f.End != nil && b.CheckInDate.After(*f.End) {
				continue
			}
			if f.EventID != 0 && b.EventID != f.EventID {
				continue
			}
			if f.AccommodationID != 0 && b.AccommodationID != f.AccommodationID {
				continue
			}
			rm, ok := st.rooms[b.RoomID]
			if !ok {
				continue
			}
			a, ok := st.accommodations[b.AccommodationID]
			if !ok {
				continue
			}
			out = append(out, model.BookingFact{
				Booking:           st.withPaid(b),
				RoomType:          rm.RoomType,
				AccommodationName: a.Name,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckInDate.Equal(out[j].CheckInDate) {
			return out[i].CheckInDate.Before(out[j].CheckInDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (v *view) RoomRefs(_ context.Context, accommodationID uint64) ([]model.RoomRef, error) {
	out := []model.RoomRef{}
	err := v.read(func(st *state) error {
		for _, rm := range st.rooms {
			if accommodationID != 0 && rm.AccommodationID != accommodationID {
				continue
			}
			a, ok := st.accommodations[rm.AccommodationID]
			if !ok {
				continue
			}
			out = append(out, model.RoomRef{RoomID: rm.ID, AccommodationID: a.ID, AccommodationName: a.Name})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccommodationID != out[j].AccommodationID {
			return out[i].AccommodationID < out[j].AccommodationID
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out, err
}
