package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
)

func TestInventoryWritesRequireOperator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.inventory.CreateAccommodation(ctx, organizer, &model.Accommodation{Name: "x", Location: "y"})
	requireKind(t, err, KindAuthorization)
	_, err = f.inventory.DeleteRoom(ctx, guest, f.acc.ID, f.room.ID)
	requireKind(t, err, KindAuthorization)
}

func TestAccommodationValidationAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requireKind(t, f.inventory.CreateAccommodation(ctx, admin, &model.Accommodation{Location: "Centre"}), KindValidation)
	requireKind(t, f.inventory.CreateAccommodation(ctx, admin, &model.Accommodation{Name: "A", Location: "B", PricePerNightCents: -1}), KindValidation)

	hostel := model.Accommodation{Name: "City Hostel", Location: "Central Station", PricePerNightCents: 3000, IsActive: false}
	require.NoError(t, f.inventory.CreateAccommodation(ctx, admin, &hostel))

	all, err := f.inventory.ListAccommodations(ctx, model.AccommodationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.inventory.ListAccommodations(ctx, model.AccommodationFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Harbor Inn", active[0].Name)

	maxPrice := int64(5000)
	cheap, err := f.inventory.ListAccommodations(ctx, model.AccommodationFilter{MaxPriceCents: &maxPrice, Location: "central"})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, hostel.ID, cheap[0].ID)

	minPrice := int64(9000)
	_, err = f.inventory.ListAccommodations(ctx, model.AccommodationFilter{MinPriceCents: &minPrice, MaxPriceCents: &maxPrice})
	requireKind(t, err, KindValidation)

	name := "Harbor Inn & Suites"
	updated, err := f.inventory.UpdateAccommodation(ctx, admin, f.acc.ID, model.AccommodationPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "Old Town", updated.Location)

	_, err = f.inventory.GetAccommodation(ctx, 999)
	requireKind(t, err, KindNotFound)
}

func TestRoomRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.inventory.AddRoom(ctx, admin, f.acc.ID, &model.Room{RoomNumber: "101", RoomType: "single", Capacity: 1})
	requireKind(t, err, KindConflict)
	err = f.inventory.AddRoom(ctx, admin, f.acc.ID, &model.Room{RoomType: "single", Capacity: 1})
	requireKind(t, err, KindValidation)
	err = f.inventory.AddRoom(ctx, admin, f.acc.ID, &model.Room{RoomNumber: "102", Capacity: 1})
	requireKind(t, err, KindValidation)
	err = f.inventory.AddRoom(ctx, admin, 999, &model.Room{RoomNumber: "1", RoomType: "single", Capacity: 1})
	requireKind(t, err, KindNotFound)

	other := f.addRoom(t, "102", "single", nil)
	dup := "101"
	_, err = f.inventory.UpdateRoom(ctx, admin, f.acc.ID, other.ID, model.RoomPatch{RoomNumber: &dup})
	requireKind(t, err, KindConflict)

	_, err = f.inventory.GetRoom(ctx, f.acc.ID+1, other.ID)
	requireKind(t, err, KindNotFound)

	rooms, err := f.inventory.ListRooms(ctx, f.acc.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	deleted, err := f.inventory.DeleteRoom(ctx, admin, f.acc.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = f.inventory.DeleteRoom(ctx, admin, f.acc.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteBlockedByOutstandingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, guest, f.room.ID, "2025-05-01", "2025-05-03")

	_, err := f.inventory.DeleteRoom(ctx, admin, f.acc.ID, f.room.ID)
	requireKind(t, err, KindConflict)
	requireKind(t, f.inventory.DeleteAccommodation(ctx, admin, f.acc.ID), KindConflict)

	_, err = f.bookings.Cancel(ctx, guest, b.ID)
	require.NoError(t, err)
	// history still references the room
	requireKind(t, f.inventory.DeleteAccommodation(ctx, admin, f.acc.ID), KindConflict)

	empty := model.Accommodation{Name: "Annex", Location: "Old Town", IsActive: true}
	require.NoError(t, f.inventory.CreateAccommodation(ctx, admin, &empty))
	require.NoError(t, f.inventory.DeleteAccommodation(ctx, admin, empty.ID))
	requireKind(t, f.inventory.DeleteAccommodation(ctx, admin, empty.ID), KindNotFound)
}

func TestFindAvailableRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r2 := f.addRoom(t, "102", "double", nil)
	r3 := f.addRoom(t, "103", "single", nil)
	off := false
	_, err := f.inventory.UpdateRoom(ctx, admin, f.acc.ID, r3.ID, model.RoomPatch{IsAvailable: &off})
	require.NoError(t, err)
	f.book(t, guest, f.room.ID, "2025-05-01", "2025-05-05")

	free, err := f.checker.FindAvailableRooms(ctx, f.acc.ID, date("2025-05-03"), date("2025-05-04"))
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, r2.ID, free[0].ID)

	free, err = f.checker.FindAvailableRooms(ctx, f.acc.ID, date("2025-05-05"), date("2025-05-06"))
	require.NoError(t, err)
	assert.Len(t, free, 2)

	busy, err := f.checker.HasConflict(ctx, f.room.ID, date("2025-04-30"), date("2025-05-02"))
	require.NoError(t, err)
	assert.True(t, busy)
	busy, err = f.checker.HasConflict(ctx, f.room.ID, date("2025-04-30"), date("2025-05-01"))
	require.NoError(t, err)
	assert.False(t, busy)

	_, err = f.checker.FindAvailableRooms(ctx, f.acc.ID, date("2025-05-03"), date("2025-05-03"))
	requireKind(t, err, KindValidation)
	_, err = f.checker.FindAvailableRooms(ctx, 999, date("2025-05-03"), date("2025-05-04"))
	requireKind(t, err, KindNotFound)
}
