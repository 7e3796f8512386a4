package model

import "time"

// ReportFilter scopes a report.  Start and End bound the check-in date,
// both inclusive.
type ReportFilter struct {
	Start           *time.Time
	End             *time.Time
	EventID         uint64
	AccommodationID uint64
}

// BookingFact is one booking joined with the inventory attributes the
// aggregator groups by.
type BookingFact struct {
	Booking
	RoomType          string
	AccommodationName string
}

// RoomRef identifies a room of the inventory for occupancy denominators.
type RoomRef struct {
	RoomID            uint64
	AccommodationID   uint64
	AccommodationName string
}

// RevenueSummary covers non-cancelled bookings only.
type RevenueSummary struct {
	TotalBookings    int   `json:"total_bookings"`
	TotalNights      int   `json:"total_nights"`
	GrossCents       int64 `json:"gross_cents"`
	CollectedCents   int64 `json:"collected_cents"`   // bookings with payment_status=completed
	OutstandingCents int64 `json:"outstanding_cents"` // bookings with payment_status pending or partial
	ReceivedCents    int64 `json:"received_cents"`    // ledger sum
}

// StatusBreakdown is one row per booking status, cancelled included.
type StatusBreakdown struct {
	Status       BookingStatus `json:"status"`
	Count        int           `json:"count"`
	RevenueCents int64         `json:"revenue_cents"`
}

// Occupancy is the share of an accommodation's rooms booked in the window.
type Occupancy struct {
	AccommodationID   uint64  `json:"accommodation_id"`
	AccommodationName string  `json:"accommodation_name"`
	TotalRooms        int     `json:"total_rooms"`
	BookedRooms       int     `json:"booked_rooms"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

// RoomTypeStat is the popularity of one room type.
type RoomTypeStat struct {
	RoomType     string `json:"room_type"`
	Bookings     int    `json:"bookings"`
	Nights       int    `json:"nights"`
	RevenueCents int64  `json:"revenue_cents"`
}

// MonthStat is one point of the check-in month timeline.
type MonthStat struct {
	Month        string `json:"month"` // YYYY-MM
	Bookings     int    `json:"bookings"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Report is the full aggregate returned by GET /v1/reports.
type Report struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Revenue         RevenueSummary    `json:"revenue"`
	StatusBreakdown []StatusBreakdown `json:"status_breakdown"`
	Occupancy       []Occupancy       `json:"occupancy"`
	RoomTypes       []RoomTypeStat    `json:"room_types"`
	Timeline        []MonthStat       `json:"timeline"`
}
