package service

import (
	"context"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// AvailabilityChecker answers which rooms are free for a stay.  A room is
// free when it is in service and no non-cancelled booking of it overlaps
// the half-open range [checkIn, checkOut).
type AvailabilityChecker struct {
	store repository.Store
}

// NewAvailabilityChecker wires an AvailabilityChecker.
func NewAvailabilityChecker(store repository.Store) *AvailabilityChecker {
	return &AvailabilityChecker{store: store}
}

func stayOf(checkIn, checkOut time.Time) (model.DateRange, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return model.DateRange{}, validationf("check_in_date and check_out_date are required")
	}
	stay := model.DateRange{CheckIn: model.TruncateDay(checkIn), CheckOut: model.TruncateDay(checkOut)}
	if !stay.Valid() {
		return model.DateRange{}, validationf("check_out_date must be after check_in_date")
	}
	return stay, nil
}

// FindAvailableRooms lists the rooms of an accommodation free for the
// whole stay.  An inactive accommodation has no available rooms.
func (c *AvailabilityChecker) FindAvailableRooms(ctx context.Context, accommodationID uint64, checkIn, checkOut time.Time) ([]model.Room, error) {
	stay, err := stayOf(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	a, err := c.store.Accommodations().GetAccommodation(ctx, accommodationID)
	if err != nil {
		return nil, storeError(err, "get accommodation", "accommodation")
	}
	if !a.IsActive {
		return []model.Room{}, nil
	}
	rooms, err := c.store.Rooms().ListRooms(ctx, accommodationID)
	if err != nil {
		return nil, storeError(err, "list rooms", "room")
	}
	taken, err := c.store.Bookings().ConflictingRoomIDs(ctx, accommodationID, stay)
	if err != nil {
		return nil, storeError(err, "find conflicts", "booking")
	}
	busy := make(map[uint64]struct{}, len(taken))
	for _, id := range taken {
		busy[id] = struct{}{}
	}
	out := []model.Room{}
	for _, rm := range rooms {
		if _, ok := busy[rm.ID]; ok || !rm.IsAvailable {
			continue
		}
		out = append(out, rm)
	}
	return out, nil
}

// HasConflict reports whether the room already has a non-cancelled
// booking overlapping the stay.  An unknown room is NotFound.
func (c *AvailabilityChecker) HasConflict(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	stay, err := stayOf(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	if _, err := c.store.Rooms().GetRoom(ctx, roomID); err != nil {
		return false, storeError(err, "get room", "room")
	}
	return hasConflict(ctx, c.store, roomID, stay)
}

// hasConflict runs against st so booking creation can re-check inside
// its transaction, after the room lock is held.
func hasConflict(ctx context.Context, st repository.Stores, roomID uint64, stay model.DateRange) (bool, error) {
	conflicts, err := st.Bookings().FindConflicts(ctx, roomID, stay)
	if err != nil {
		return false, storeError(err, "find conflicts", "booking")
	}
	return len(conflicts) > 0, nil
}
