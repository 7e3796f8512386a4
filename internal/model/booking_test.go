package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTransitions(t *testing.T) {
	legal := map[BookingStatus][]BookingStatus{
		BookingPending:   {BookingConfirmed, BookingCancelled},
		BookingConfirmed: {BookingCheckedIn, BookingCancelled},
		BookingCheckedIn: {BookingCheckedOut},
	}
	for _, from := range BookingStatuses {
		for _, to := range BookingStatuses {
			want := false
			for _, l := range legal[from] {
				if l == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, BookingConfirmed.CanTransitionTo(BookingPending))
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingCheckedOut.Terminal())
	assert.False(t, BookingCheckedIn.Terminal())
	assert.False(t, BookingStatus("archived").Valid())
	assert.False(t, BookingStatus("archived").Terminal())
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentPending, DerivePaymentStatus(40000, 0))
	assert.Equal(t, PaymentPartial, DerivePaymentStatus(40000, 1))
	assert.Equal(t, PaymentPartial, DerivePaymentStatus(40000, 39999))
	assert.Equal(t, PaymentCompleted, DerivePaymentStatus(40000, 40000))
	assert.Equal(t, PaymentCompleted, DerivePaymentStatus(40000, 50000))
}

func TestBookingFilterMatches(t *testing.T) {
	b := Booking{
		UserID: 7, EventID: 3, RoomID: 11, AccommodationID: 2,
		CheckInDate: day(t, "2025-05-10"), Status: BookingConfirmed, PaymentStatus: PaymentPartial,
	}
	from, to := day(t, "2025-05-10"), day(t, "2025-05-10")
	assert.True(t, BookingFilter{}.Matches(b))
	assert.True(t, BookingFilter{UserID: 7, EventID: 3, CheckInFrom: &from, CheckInTo: &to}.Matches(b))
	assert.False(t, BookingFilter{UserID: 8}.Matches(b))
	assert.False(t, BookingFilter{Status: BookingPending}.Matches(b))
	later := day(t, "2025-05-11")
	assert.False(t, BookingFilter{CheckInFrom: &later}.Matches(b))
}

func TestBookingJSONDates(t *testing.T) {
	b := Booking{ID: 1, CheckInDate: day(t, "2025-05-01"), CheckOutDate: day(t, "2025-05-05"), Status: BookingPending}
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "2025-05-01", m["check_in_date"])
	assert.Equal(t, "2025-05-05", m["check_out_date"])
	assert.Equal(t, "pending", m["status"])
}
