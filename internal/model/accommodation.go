package model

import "time"

// Accommodation is a lodging property (hotel, hostel, dormitory) offered to
// event attendees.  It corresponds to a row in the `accommodations` table
// and owns zero or more rooms.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name.
//  Location           – free-text address or area, searched by substring.
//  Description        – optional description.
//  PricePerNightCents – default nightly rate for rooms without an override.
//  TotalRooms         – advertised room count (informational; occupancy
//                       uses the actual rooms rows).
//  IsActive           – inactive properties are hidden from active-only
//                       listings and refuse new bookings.
type Accommodation struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	Location           string    `json:"location"`
	Description        *string   `json:"description,omitempty"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalRooms         int       `json:"total_rooms"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AccommodationFilter narrows ListAccommodations.  Nil fields are ignored.
type AccommodationFilter struct {
	ActiveOnly    bool
	MinPriceCents *int64
	MaxPriceCents *int64
	Location      string // case-insensitive substring
}

// AccommodationPatch is a partial update; nil fields keep their value.
type AccommodationPatch struct {
	Name               *string `json:"name"`
	Location           *string `json:"location"`
	Description        *string `json:"description"`
	PricePerNightCents *int64  `json:"price_per_night_cents"`
	TotalRooms         *int    `json:"total_rooms"`
	IsActive           *bool   `json:"is_active"`
}

// Apply copies the non-nil fields of p onto a.
func (p AccommodationPatch) Apply(a *Accommodation) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Description != nil {
		if *p.Description == "" {
			a.Description = nil
		} else {
			d := *p.Description
			a.Description = &d
		}
	}
	if p.PricePerNightCents != nil {
		a.PricePerNightCents = *p.PricePerNightCents
	}
	if p.TotalRooms != nil {
		a.TotalRooms = *p.TotalRooms
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
}
