package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
)

func TestReportRequiresOperator(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.Generate(context.Background(), organizer, model.ReportFilter{})
	requireKind(t, err, KindAuthorization)

	start, end := date("2025-06-01"), date("2025-05-01")
	_, err = f.reports.Generate(context.Background(), admin, model.ReportFilter{Start: &start, End: &end})
	requireKind(t, err, KindValidation)
}

func TestReportOccupancySevenOfTen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rooms := []model.Room{f.room}
	for i := 2; i <= 10; i++ {
		rooms = append(rooms, f.addRoom(t, fmt.Sprintf("1%02d", i), "double", nil))
	}
	for _, rm := range rooms[:7] {
		f.book(t, guest, rm.ID, "2025-05-01", "2025-05-03")
	}
	r, err := f.reports.Generate(ctx, admin, model.ReportFilter{AccommodationID: f.acc.ID})
	require.NoError(t, err)
	require.Len(t, r.Occupancy, 1)
	assert.Equal(t, 70.0, r.Occupancy[0].OccupancyRate)
	assert.Equal(t, 7, r.Revenue.TotalBookings)
	assert.EqualValues(t, 7*20000, r.Revenue.GrossCents)
}

// A booking is paid in two parts, then cancelled, and must vanish from
// every non-cancelled aggregate.
func TestBookingPaymentCancellationScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, guest, f.room.ID, "2025-05-01", "2025-05-05")
	require.EqualValues(t, 40000, b.TotalPriceCents)

	_, got, err := f.payments.AddPayment(ctx, guest, b.ID, pay(15000))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, got.PaymentStatus)

	r, err := f.reports.Generate(ctx, admin, model.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Revenue.TotalBookings)
	assert.EqualValues(t, 40000, r.Revenue.OutstandingCents)
	assert.EqualValues(t, 15000, r.Revenue.ReceivedCents)

	_, got, err = f.payments.AddPayment(ctx, guest, b.ID, pay(25000))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, got.PaymentStatus)

	r, err = f.reports.Generate(ctx, admin, model.ReportFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 40000, r.Revenue.CollectedCents)
	assert.Zero(t, r.Revenue.OutstandingCents)
	require.Len(t, r.Timeline, 1)
	assert.Equal(t, "2025-05", r.Timeline[0].Month)

	cancelled, err := f.bookings.Cancel(ctx, guest, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, cancelled.PaymentStatus)

	r, err = f.reports.Generate(ctx, admin, model.ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, r.Revenue.TotalBookings)
	assert.Zero(t, r.Revenue.GrossCents)
	assert.Empty(t, r.Timeline)
	assert.Empty(t, r.RoomTypes)
	require.Len(t, r.Occupancy, 1)
	assert.Zero(t, r.Occupancy[0].BookedRooms)
	for _, row := range r.StatusBreakdown {
		if row.Status == model.BookingCancelled {
			assert.Equal(t, 1, row.Count)
			assert.EqualValues(t, 40000, row.RevenueCents)
		}
	}

	start, end := date("2025-06-01"), date("2025-06-30")
	r, err = f.reports.Generate(ctx, admin, model.ReportFilter{Start: &start, End: &end})
	require.NoError(t, err)
	for _, row := range r.StatusBreakdown {
		assert.Zero(t, row.Count)
	}
}
