package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// InventoryService manages accommodations and their rooms.  Reads are
// open to every caller; writes require the operator role.
type InventoryService struct {
	store repository.Store
	log   *zap.Logger
}

// NewInventoryService wires an InventoryService.
func NewInventoryService(store repository.Store, log *zap.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

func requireOperator(c model.Caller) error {
	if !c.IsOperator() {
		return forbiddenf("operator role required")
	}
	return nil
}

func validateAccommodation(a *model.Accommodation) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Location = strings.TrimSpace(a.Location)
	switch {
	case a.Name == "":
		return validationf("name is required")
	case a.Location == "":
		return validationf("location is required")
	case a.PricePerNightCents < 0:
		return validationf("price_per_night_cents must not be negative")
	case a.TotalRooms < 0:
		return validationf("total_rooms must not be negative")
	}
	return nil
}

func validateRoom(r *model.Room) error {
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	r.RoomType = strings.TrimSpace(r.RoomType)
	switch {
	case r.RoomNumber == "":
		return validationf("room_number is required")
	case r.RoomType == "":
		return validationf("room_type is required")
	case r.Capacity < 1:
		return validationf("capacity must be at least 1")
	case r.PricePerNightCents != nil && *r.PricePerNightCents < 0:
		return validationf("price_per_night_cents must not be negative")
	}
	return nil
}

// GetAccommodation returns one accommodation.
func (s *InventoryService) GetAccommodation(ctx context.Context, id uint64) (*model.Accommodation, error) {
	a, err := s.store.Accommodations().GetAccommodation(ctx, id)
	if err != nil {
		return nil, storeError(err, "get accommodation", "accommodation")
	}
	return a, nil
}

// ListAccommodations filters by active flag, price range and location.
func (s *InventoryService) ListAccommodations(ctx context.Context, f model.AccommodationFilter) ([]model.Accommodation, error) {
	if f.MinPriceCents != nil && *f.MinPriceCents < 0 || f.MaxPriceCents != nil && *f.MaxPriceCents < 0 {
		return nil, validationf("price bounds must not be negative")
	}
	if f.MinPriceCents != nil && f.MaxPriceCents != nil && *f.MinPriceCents > *f.MaxPriceCents {
		return nil, validationf("min_price must not exceed max_price")
	}
	list, err := s.store.Accommodations().ListAccommodations(ctx, f)
	if err != nil {
		return nil, storeError(err, "list accommodations", "accommodation")
	}
	return list, nil
}

// CreateAccommodation validates and stores a new accommodation.
func (s *InventoryService) CreateAccommodation(ctx context.Context, caller model.Caller, a *model.Accommodation) error {
	if err := requireOperator(caller); err != nil {
		return err
	}
	if err := validateAccommodation(a); err != nil {
		return err
	}
	if err := s.store.Accommodations().CreateAccommodation(ctx, a); err != nil {
		return storeError(err, "create accommodation", "accommodation")
	}
	s.log.Info("accommodation created", zap.Uint64("accommodation_id", a.ID), zap.Uint64("actor_id", caller.UserID))
	return nil
}

// UpdateAccommodation applies a partial update.
func (s *InventoryService) UpdateAccommodation(ctx context.Context, caller model.Caller, id uint64, patch model.AccommodationPatch) (*model.Accommodation, error) {
	if err := requireOperator(caller); err != nil {
		return nil, err
	}
	var out *model.Accommodation
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		a, err := tx.Accommodations().GetAccommodation(ctx, id)
		if err != nil {
			return storeError(err, "get accommodation", "accommodation")
		}
		patch.Apply(a)
		if err := validateAccommodation(a); err != nil {
			return err
		}
		if err := tx.Accommodations().UpdateAccommodation(ctx, a); err != nil {
			return storeError(err, "update accommodation", "accommodation")
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAccommodation removes an accommodation and its rooms.  It is
// refused while any booking of it has not finished.
func (s *InventoryService) DeleteAccommodation(ctx context.Context, caller model.Caller, id uint64) error {
	if err := requireOperator(caller); err != nil {
		return err
	}
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		if _, err := tx.Accommodations().GetAccommodation(ctx, id); err != nil {
			return storeError(err, "get accommodation", "accommodation")
		}
		n, err := tx.Bookings().CountOutstandingByAccommodation(ctx, id)
		if err != nil {
			return storeError(err, "count bookings", "booking")
		}
		if n > 0 {
			return conflictf("accommodation has %d outstanding bookings", n)
		}
		return storeError(tx.Accommodations().DeleteAccommodation(ctx, id), "delete accommodation", "accommodation")
	})
	if err != nil {
		return err
	}
	s.log.Info("accommodation deleted", zap.Uint64("accommodation_id", id), zap.Uint64("actor_id", caller.UserID))
	return nil
}

// ListRooms returns the rooms of an existing accommodation.
func (s *InventoryService) ListRooms(ctx context.Context, accommodationID uint64) ([]model.Room, error) {
	if _, err := s.GetAccommodation(ctx, accommodationID); err != nil {
		return nil, err
	}
	rooms, err := s.store.Rooms().ListRooms(ctx, accommodationID)
	if err != nil {
		return nil, storeError(err, "list rooms", "room")
	}
	return rooms, nil
}

// roomOf loads a room and checks it belongs to the accommodation.
func roomOf(ctx context.Context, st repository.Stores, accommodationID, roomID uint64) (*model.Room, error) {
	rm, err := st.Rooms().GetRoom(ctx, roomID)
	if err != nil {
		return nil, storeError(err, "get room", "room")
	}
	if rm.AccommodationID != accommodationID {
		return nil, notFoundf("room not found")
	}
	return rm, nil
}

// GetRoom returns a room scoped under its accommodation.
func (s *InventoryService) GetRoom(ctx context.Context, accommodationID, roomID uint64) (*model.Room, error) {
	return roomOf(ctx, s.store, accommodationID, roomID)
}

// AddRoom creates a room.  Room numbers are unique per accommodation.
func (s *InventoryService) AddRoom(ctx context.Context, caller model.Caller, accommodationID uint64, r *model.Room) error {
	if err := requireOperator(caller); err != nil {
		return err
	}
	r.AccommodationID = accommodationID
	if err := validateRoom(r); err != nil {
		return err
	}
	if _, err := s.GetAccommodation(ctx, accommodationID); err != nil {
		return err
	}
	if err := s.store.Rooms().CreateRoom(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return conflictf("room number %s already exists in this accommodation", r.RoomNumber)
		}
		return storeError(err, "create room", "accommodation")
	}
	return nil
}

// UpdateRoom applies a partial update to a room.
func (s *InventoryService) UpdateRoom(ctx context.Context, caller model.Caller, accommodationID, roomID uint64, patch model.RoomPatch) (*model.Room, error) {
	if err := requireOperator(caller); err != nil {
		return nil, err
	}
	var out *model.Room
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		rm, err := roomOf(ctx, tx, accommodationID, roomID)
		if err != nil {
			return err
		}
		patch.Apply(rm)
		if err := validateRoom(rm); err != nil {
			return err
		}
		if err := tx.Rooms().UpdateRoom(ctx, rm); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflictf("room number %s already exists in this accommodation", rm.RoomNumber)
			}
			return storeError(err, "update room", "room")
		}
		out = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRoom removes a room.  Deleting an absent room is not an error:
// it reports deleted=false.  Rooms with outstanding bookings are kept.
func (s *InventoryService) DeleteRoom(ctx context.Context, caller model.Caller, accommodationID, roomID uint64) (bool, error) {
	if err := requireOperator(caller); err != nil {
		return false, err
	}
	deleted := false
	err := inTx(ctx, s.store, repository.TxOptions{}, func(tx repository.Tx) error {
		if _, err := roomOf(ctx, tx, accommodationID, roomID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		n, err := tx.Bookings().CountOutstandingByRoom(ctx, roomID)
		if err != nil {
			return storeError(err, "count bookings", "booking")
		}
		if n > 0 {
			return conflictf("room has %d outstanding bookings", n)
		}
		deleted, err = tx.Rooms().DeleteRoom(ctx, accommodationID, roomID)
		return storeError(err, "delete room", "room")
	})
	return deleted, err
}
