// Package report folds booking facts into the aggregates served by the
// reporting endpoint.  Everything here is pure: the caller loads the rows
// inside one read-only transaction and hands them over.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
)

// Build assembles the full report.
func Build(facts []model.BookingFact, rooms []model.RoomRef, generatedAt time.Time) model.Report {
	return model.Report{
		GeneratedAt:     generatedAt.UTC(),
		Revenue:         Revenue(facts),
		StatusBreakdown: ByStatus(facts),
		Occupancy:       Occupancy(facts, rooms),
		RoomTypes:       RoomTypes(facts),
		Timeline:        Timeline(facts),
	}
}

// Revenue summarises non-cancelled bookings.  Collected is the value of
// fully paid bookings, outstanding the value of the rest; received is the
// money actually in the ledger.
func Revenue(facts []model.BookingFact) model.RevenueSummary {
	var s model.RevenueSummary
	for _, f := range facts {
		if !f.Status.Occupying() {
			continue
		}
		s.TotalBookings++
		s.TotalNights += f.Nights
		s.GrossCents += f.TotalPriceCents
		s.ReceivedCents += f.AmountPaidCents
		if f.PaymentStatus == model.PaymentCompleted {
			s.CollectedCents += f.TotalPriceCents
		} else {
			s.OutstandingCents += f.TotalPriceCents
		}
	}
	return s
}

// ByStatus returns one row per lifecycle status, in lifecycle order,
// cancelled included.
func ByStatus(facts []model.BookingFact) []model.StatusBreakdown {
	idx := make(map[model.BookingStatus]int, len(model.BookingStatuses))
	out := make([]model.StatusBreakdown, len(model.BookingStatuses))
	for i, st := range model.BookingStatuses {
		idx[st] = i
		out[i].Status = st
	}
	for _, f := range facts {
		i, ok := idx[f.Status]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].RevenueCents += f.TotalPriceCents
	}
	return out
}

// Occupancy is distinct booked rooms over distinct rooms per
// accommodation, as a percentage rounded to two decimals.  Accommodations
// without rooms are left out.
func Occupancy(facts []model.BookingFact, rooms []model.RoomRef) []model.Occupancy {
	type acc struct {
		name   string
		rooms  map[uint64]struct{}
		booked map[uint64]struct{}
	}
	byAcc := map[uint64]*acc{}
	order := []uint64{}
	for _, r := range rooms {
		a, ok := byAcc[r.AccommodationID]
		if !ok {
			a = &acc{name: r.AccommodationName, rooms: map[uint64]struct{}{}, booked: map[uint64]struct{}{}}
			byAcc[r.AccommodationID] = a
			order = append(order, r.AccommodationID)
		}
		a.rooms[r.RoomID] = struct{}{}
	}
	for _, f := range facts {
		if !f.Status.Occupying() {
			continue
		}
		a, ok := byAcc[f.AccommodationID]
		if !ok {
			continue
		}
		if _, known := a.rooms[f.RoomID]; known {
			a.booked[f.RoomID] = struct{}{}
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]model.Occupancy, 0, len(order))
	for _, id := range order {
		a := byAcc[id]
		out = append(out, model.Occupancy{
			AccommodationID:   id,
			AccommodationName: a.name,
			TotalRooms:        len(a.rooms),
			BookedRooms:       len(a.booked),
			OccupancyRate:     Rate(len(a.booked), len(a.rooms)),
		})
	}
	return out
}

// Rate returns part/whole as a percentage with two decimals.
func Rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(whole)) / 100
}

// RoomTypes ranks room types by bookings, then revenue, then name.
func RoomTypes(facts []model.BookingFact) []model.RoomTypeStat {
	byType := map[string]*model.RoomTypeStat{}
	for _, f := range facts {
		if !f.Status.Occupying() {
			continue
		}
		st, ok := byType[f.RoomType]
		if !ok {
			st = &model.RoomTypeStat{RoomType: f.RoomType}
			byType[f.RoomType] = st
		}
		st.Bookings++
		st.Nights += f.Nights
		st.RevenueCents += f.TotalPriceCents
	}
	out := make([]model.RoomTypeStat, 0, len(byType))
	for _, st := range byType {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		if out[i].RevenueCents != out[j].RevenueCents {
			return out[i].RevenueCents > out[j].RevenueCents
		}
		return out[i].RoomType < out[j].RoomType
	})
	return out
}

// Timeline groups non-cancelled bookings by check-in month.
func Timeline(facts []model.BookingFact) []model.MonthStat {
	byMonth := map[string]*model.MonthStat{}
	for _, f := range facts {
		if !f.Status.Occupying() {
			continue
		}
		key := f.CheckInDate.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &model.MonthStat{Month: key}
			byMonth[key] = m
		}
		m.Bookings++
		m.RevenueCents += f.TotalPriceCents
	}
	out := make([]model.MonthStat, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
