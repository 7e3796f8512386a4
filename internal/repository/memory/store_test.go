package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seed(t *testing.T, s *Store) (model.Accommodation, model.Room) {
	t.Helper()
	ctx := context.Background()
	a := model.Accommodation{Name: "Harbor Inn", Location: "Old Town", PricePerNightCents: 10000, TotalRooms: 1, IsActive: true}
	require.NoError(t, s.Accommodations().CreateAccommodation(ctx, &a))
	rm := model.Room{AccommodationID: a.ID, RoomNumber: "101", RoomType: "double", Capacity: 2, IsAvailable: true}
	require.NoError(t, s.Rooms().CreateRoom(ctx, &rm))
	return a, rm
}

func booking(rm model.Room, in, out string, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		UserID: 5, EventID: 1, RoomID: rm.ID, AccommodationID: rm.AccommodationID,
		CheckInDate: date(in), CheckOutDate: date(out), Nights: 1, TotalPriceCents: 10000,
		Status: status, PaymentStatus: model.PaymentPending,
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, rm := seed(t, s)

	tx, err := s.Begin(ctx, repository.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, tx.Bookings().CreateBooking(ctx, booking(rm, "2025-05-01", "2025-05-02", model.BookingPending)))
	require.NoError(t, tx.Rollback())

	n, err := s.Bookings().CountBookings(ctx, model.BookingFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	tx, err = s.Begin(ctx, repository.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, tx.Bookings().CreateBooking(ctx, booking(rm, "2025-05-01", "2025-05-02", model.BookingPending)))
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())

	n, err = s.Bookings().CountBookings(ctx, model.BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReadOnlyTxRefusesWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.Begin(ctx, repository.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer tx.Rollback()
	err = tx.Accommodations().CreateAccommodation(ctx, &model.Accommodation{Name: "x"})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRoomConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, rm := seed(t, s)

	dup := model.Room{AccommodationID: a.ID, RoomNumber: "101", RoomType: "single", Capacity: 1}
	assert.ErrorIs(t, s.Rooms().CreateRoom(ctx, &dup), repository.ErrDuplicate)

	orphan := model.Room{AccommodationID: 999, RoomNumber: "1", RoomType: "single", Capacity: 1}
	assert.ErrorIs(t, s.Rooms().CreateRoom(ctx, &orphan), repository.ErrNotFound)

	deleted, err := s.Rooms().DeleteRoom(ctx, a.ID, 999)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, s.Bookings().CreateBooking(ctx, booking(rm, "2025-05-01", "2025-05-02", model.BookingCheckedOut)))
	_, err = s.Rooms().DeleteRoom(ctx, a.ID, rm.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.ErrorIs(t, s.Accommodations().DeleteAccommodation(ctx, a.ID), repository.ErrConflict)
}

func TestDeleteAccommodationCascadesRooms(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, rm := seed(t, s)
	require.NoError(t, s.Accommodations().DeleteAccommodation(ctx, a.ID))
	_, err := s.Rooms().GetRoom(ctx, rm.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Accommodations().DeleteAccommodation(ctx, a.ID), repository.ErrNotFound)
}

func TestConflictsIgnoreCancelled(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, rm := seed(t, s)
	require.NoError(t, s.Bookings().CreateBooking(ctx, booking(rm, "2025-05-01", "2025-05-05", model.BookingCancelled)))
	require.NoError(t, s.Bookings().CreateBooking(ctx, booking(rm, "2025-05-05", "2025-05-07", model.BookingConfirmed)))

	stay := model.DateRange{CheckIn: date("2025-05-02"), CheckOut: date("2025-05-05")}
	conflicts, err := s.Bookings().FindConflicts(ctx, rm.ID, stay)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	stay = model.DateRange{CheckIn: date("2025-05-06"), CheckOut: date("2025-05-08")}
	ids, err := s.Bookings().ConflictingRoomIDs(ctx, a.ID, stay)
	require.NoError(t, err)
	assert.Equal(t, []uint64{rm.ID}, ids)
}

func TestAmountPaidFollowsLedger(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, rm := seed(t, s)
	b := booking(rm, "2025-05-01", "2025-05-02", model.BookingPending)
	require.NoError(t, s.Bookings().CreateBooking(ctx, b))

	for _, amt := range []int64{2500, 1500} {
		p := model.Payment{BookingID: b.ID, AmountCents: amt, PaymentDate: date("2025-04-01"), PaymentMethod: "card"}
		require.NoError(t, s.Payments().AppendPayment(ctx, &p))
	}
	got, err := s.Bookings().GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, got.AmountPaidCents)

	sum, err := s.Payments().SumPayments(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, sum)

	missing := model.Payment{BookingID: 404, AmountCents: 1}
	assert.ErrorIs(t, s.Payments().AppendPayment(ctx, &missing), repository.ErrNotFound)
}

func TestListBookingsPagination(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, rm := seed(t, s)
	for i := 0; i < 5; i++ {
		in := date("2025-05-01").AddDate(0, 0, i*2)
		b := booking(rm, in.Format(model.DateLayout), in.AddDate(0, 0, 1).Format(model.DateLayout), model.BookingPending)
		require.NoError(t, s.Bookings().CreateBooking(ctx, b))
	}
	page, err := s.Bookings().ListBookings(ctx, model.BookingFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 4, page[0].ID)
	assert.EqualValues(t, 3, page[1].ID)

	page, err = s.Bookings().ListBookings(ctx, model.BookingFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestEventDirectory(t *testing.T) {
	ctx := context.Background()
	s := New(WithEvents(1, 2))
	ok, err := s.Events().EventExists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Events().EventExists(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	s.AddEvent(3)
	ok, _ = s.Events().EventExists(ctx, 3)
	assert.True(t, ok)
}
