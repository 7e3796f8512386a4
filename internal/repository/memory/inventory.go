package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

func (v *view) GetAccommodation(_ context.Context, id uint64) (*model.Accommodation, error) {
	var out model.Accommodation
	err := v.read(func(st *state) error {
		a, ok := st.accommodations[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *view) ListAccommodations(_ context.Context, f model.AccommodationFilter) ([]model.Accommodation, error) {
	out := []model.Accommodation{}
	loc := strings.ToLower(strings.TrimSpace(f.Location))
	err := v.read(func(st *state) error {
		for _, a := range st.accommodations {
			if f.ActiveOnly && !a.IsActive {
				continue
			}
			if f.MinPriceCents != nil && a.PricePerNightCents < *f.MinPriceCents {
				continue
			}
			if f.MaxPriceCents != nil && a.PricePerNightCents > *f.MaxPriceCents {
				continue
			}
			if loc != "" && !strings.Contains(strings.ToLower(a.Location), loc) {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (v *view) CreateAccommodation(_ context.Context, a *model.Accommodation) error {
	return v.write(func(st *state) error {
		st.nextAccommodation++
		now := v.now()
		a.ID = st.nextAccommodation
		a.CreatedAt, a.UpdatedAt = now, now
		st.accommodations[a.ID] = *a
		return nil
	})
}

func (v *view) UpdateAccommodation(_ context.Context, a *model.Accommodation) error {
	return v.write(func(st *state) error {
		cur, ok := st.accommodations[a.ID]
		if !ok {
			return repository.ErrNotFound
		}
		a.CreatedAt = cur.CreatedAt
		a.UpdatedAt = v.now()
		st.accommodations[a.ID] = *a
		return nil
	})
}

// DeleteAccommodation cascades to rooms and refuses when any booking
// references one of them, like the MySQL foreign keys.
func (v *view) DeleteAccommodation(_ context.Context, id uint64) error {
	return v.write(func(st *state) error {
		if _, ok := st.accommodations[id]; !ok {
			return repository.ErrNotFound
		}
		for _, b := range st.bookings {
			if rm, ok := st.rooms[b.RoomID]; ok && rm.AccommodationID == id {
				return repository.ErrConflict
			}
		}
		for rid, rm := range st.rooms {
			if rm.AccommodationID == id {
				delete(st.rooms, rid)
			}
		}
		delete(st.accommodations, id)
		return nil
	})
}

func (v *view) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
	var out model.Room
	err := v.read(func(st *state) error {
		rm, ok := st.rooms[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LockRoom is GetRoom: the transaction already holds the store mutex.
func (v *view) LockRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return v.GetRoom(ctx, id)
}

func (v *view) ListRooms(_ context.Context, accommodationID uint64) ([]model.Room, error) {
	out := []model.Room{}
	err := v.read(func(st *state) error {
		for _, rm := range st.rooms {
			if rm.AccommodationID == accommodationID {
				out = append(out, rm)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomNumber != out[j].RoomNumber {
			return out[i].RoomNumber < out[j].RoomNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func roomNumberTaken(st *state, rm *model.Room) bool {
	for id, other := range st.rooms {
		if id != rm.ID && other.AccommodationID == rm.AccommodationID && other.RoomNumber == rm.RoomNumber {
			return true
		}
	}
	return false
}

func (v *view) CreateRoom(_ context.Context, rm *model.Room) error {
	return v.write(func(st *state) error {
		if _, ok := st.accommodations[rm.AccommodationID]; !ok {
			return repository.ErrNotFound
		}
		if roomNumberTaken(st, rm) {
			return repository.ErrDuplicate
		}
		st.nextRoom++
		now := v.now()
		rm.ID = st.nextRoom
		rm.CreatedAt, rm.UpdatedAt = now, now
		st.rooms[rm.ID] = *rm
		return nil
	})
}

func (v *view) UpdateRoom(_ context.Context, rm *model.Room) error {
	return v.write(func(st *state) error {
		cur, ok := st.rooms[rm.ID]
		if !ok || cur.AccommodationID != rm.AccommodationID {
			return repository.ErrNotFound
		}
		if roomNumberTaken(st, rm) {
			return repository.ErrDuplicate
		}
		rm.CreatedAt = cur.CreatedAt
		rm.UpdatedAt = v.now()
		st.rooms[rm.ID] = *rm
		return nil
	})
}

func (v *view) DeleteRoom(_ context.Context, accommodationID, roomID uint64) (bool, error) {
	deleted := false
	err := v.write(func(st *state) error {
		rm, ok := st.rooms[roomID]
		if !ok || rm.AccommodationID != accommodationID {
			return nil
		}
		for _, b := range st.bookings {
			if b.RoomID == roomID {
				return repository.ErrConflict
			}
		}
		delete(st.rooms, roomID)
		deleted = true
		return nil
	})
	return deleted, err
}

func (v *view) EventExists(_ context.Context, id uint64) (bool, error) {
	found := false
	err := v.read(func(st *state) error {
		_, found = st.events[id]
		return nil
	})
	return found, err
}
