package model

import "time"

// Room is a physical room inside an accommodation, stored in the
// `accommodation_rooms` table.  IsAvailable is an administrative flag that
// takes the room out of service; it says nothing about date occupancy,
// which is derived from bookings.
type Room struct {
	ID                 uint64    `json:"id"`
	AccommodationID    uint64    `json:"accommodation_id"`
	RoomNumber         string    `json:"room_number"`
	RoomType           string    `json:"room_type"`
	Capacity           int       `json:"capacity"`
	IsAvailable        bool      `json:"is_available"`
	PricePerNightCents *int64    `json:"price_per_night_cents,omitempty"` // overrides the accommodation rate
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NightlyRate resolves the rate charged for this room.
func (r Room) NightlyRate(a Accommodation) int64 {
	if r.PricePerNightCents != nil {
		return *r.PricePerNightCents
	}
	return a.PricePerNightCents
}

// RoomPatch is a partial room update; nil fields keep their value.
type RoomPatch struct {
	RoomNumber         *string `json:"room_number"`
	RoomType           *string `json:"room_type"`
	Capacity           *int    `json:"capacity"`
	IsAvailable        *bool   `json:"is_available"`
	PricePerNightCents *int64  `json:"price_per_night_cents"`
}

// Apply copies the non-nil fields of p onto r.  A negative price clears the
// override.
func (p RoomPatch) Apply(r *Room) {
	if p.RoomNumber != nil {
		r.RoomNumber = *p.RoomNumber
	}
	if p.RoomType != nil {
		r.RoomType = *p.RoomType
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	if p.IsAvailable != nil {
		r.IsAvailable = *p.IsAvailable
	}
	if p.PricePerNightCents != nil {
		if *p.PricePerNightCents < 0 {
			r.PricePerNightCents = nil
		} else {
			v := *p.PricePerNightCents
			r.PricePerNightCents = &v
		}
	}
}
