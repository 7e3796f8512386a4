package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository/memory"
)

var (
	admin     = model.Caller{UserID: 1, Role: model.RoleAdmin}
	organizer = model.Caller{UserID: 2, Role: model.RoleOrganizer}
	guest     = model.Caller{UserID: 10, Role: model.RoleParticipant}
	stranger  = model.Caller{UserID: 11, Role: model.RoleParticipant}
)

// today is the fixed clock of every fixture.
var today = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []model.DomainEvent
}

func (r *recorder) Publish(_ context.Context, ev model.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	store     *memory.Store
	inventory *InventoryService
	checker   *AvailabilityChecker
	bookings  *BookingService
	payments  *PaymentService
	reports   *ReportService
	events    *recorder
	acc       model.Accommodation
	room      model.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return today }
	store := memory.New(memory.WithEvents(1, 2), memory.WithClock(clock))
	log := zap.NewNop()
	rec := &recorder{}
	f := &fixture{
		store:     store,
		inventory: NewInventoryService(store, log),
		checker:   NewAvailabilityChecker(store),
		bookings:  NewBookingService(store, rec, log).WithClock(clock),
		payments:  NewPaymentService(store, rec, log).WithClock(clock),
		reports:   NewReportService(store, log).WithClock(clock),
		events:    rec,
	}
	ctx := context.Background()
	f.acc = model.Accommodation{Name: "Harbor Inn", Location: "Old Town", PricePerNightCents: 10000, TotalRooms: 10, IsActive: true}
	require.NoError(t, f.inventory.CreateAccommodation(ctx, admin, &f.acc))
	f.room = f.addRoom(t, "101", "double", nil)
	return f
}

func (f *fixture) addRoom(t *testing.T, number, roomType string, price *int64) model.Room {
	t.Helper()
	rm := model.Room{RoomNumber: number, RoomType: roomType, Capacity: 2, IsAvailable: true, PricePerNightCents: price}
	require.NoError(t, f.inventory.AddRoom(context.Background(), admin, f.acc.ID, &rm))
	return rm
}

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) book(t *testing.T, caller model.Caller, roomID uint64, in, out string) *model.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), caller, CreateBookingInput{
		EventID: 1, RoomID: roomID, CheckIn: date(in), CheckOut: date(out),
	})
	require.NoError(t, err)
	return b
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
